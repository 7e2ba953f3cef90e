package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidBlueprint = errors.New("invalid blueprint")
	ErrOutOfRange       = errors.New("level index out of range")
	ErrNoNextLevel      = errors.New("no next level")
	ErrNotWon           = errors.New("level is not won")
	ErrNotLost          = errors.New("level is not lost")
	ErrGameFinished     = errors.New("all levels already won")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)

// Engine provides the main interface for puzzle operations
type Engine interface {
	// Level attempt lifecycle
	Status() Status
	IsFinalVictory() bool
	Level() int
	AdvanceLevel() error
	RestartLevel() error
	Reset() error

	// Input
	Input(d Direction) MoveOutcome
	CanMove(d Direction) bool
	PossibleMoves() []Direction

	// Timed transitions
	Tick(elapsed time.Duration)
	SinceTransition() time.Duration

	// Views
	Board() *Board
	State() *GameState
	Snapshot() Snapshot
}

// Game owns one player's progress through a catalog: the current level, its
// board and the puzzle status. A Game is not safe for concurrent use.
type Game struct {
	catalog         *Catalog
	level           int
	board           *Board
	status          Status
	finalVictory    bool
	sinceTransition time.Duration
	moves           int
	pushes          int
}

var _ Engine = (*Game)(nil)

// NewGame starts an attempt at the given level
func NewGame(catalog *Catalog, level int) (*Game, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	g := &Game{catalog: catalog}
	if err := g.load(level); err != nil {
		return nil, err
	}
	return g, nil
}

// load replaces the board with a fresh parse of level and resets the attempt
func (g *Game) load(level int) error {
	bp, err := g.catalog.Blueprint(level)
	if err != nil {
		return err
	}
	board, err := Parse(bp)
	if err != nil {
		return err
	}

	g.level = level
	g.board = board
	g.status = InProgress
	g.sinceTransition = 0
	g.moves = 0
	g.pushes = 0
	return nil
}

// Input applies one directional move. Moves are rejected unless the level is
// in progress; the status is re-evaluated only after the board changed.
func (g *Game) Input(d Direction) MoveOutcome {
	if g.status != InProgress {
		return Rejected
	}

	outcome := g.board.AttemptMove(d)
	if !outcome.Changed() {
		return outcome
	}

	g.moves++
	if outcome == PushedBox {
		g.pushes++
	}
	g.evaluate()
	return outcome
}

// evaluate runs the win and stuck checks and records any transition
func (g *Game) evaluate() {
	next := Evaluate(g.board)
	if next == InProgress {
		return
	}
	if next == Won && g.catalog.IsLast(g.level) {
		next = AllLevelsWon
		g.finalVictory = true
	}
	g.status = next
	g.sinceTransition = 0
}

// Status returns the current puzzle status
func (g *Game) Status() Status {
	return g.status
}

// IsFinalVictory is true once the last level of the catalog has been won
func (g *Game) IsFinalVictory() bool {
	return g.finalVictory
}

// Level returns the zero-based index of the current level
func (g *Game) Level() int {
	return g.level
}

// Catalog returns the catalog being played
func (g *Game) Catalog() *Catalog {
	return g.catalog
}

// AdvanceLevel moves from a won level to the next one
func (g *Game) AdvanceLevel() error {
	switch g.status {
	case Won:
	case AllLevelsWon:
		return ErrNoNextLevel
	default:
		return fmt.Errorf("%w: status is %s", ErrNotWon, g.status)
	}
	if g.catalog.IsLast(g.level) {
		return ErrNoNextLevel
	}
	return g.load(g.level + 1)
}

// RestartLevel starts a lost level over
func (g *Game) RestartLevel() error {
	if g.status != Lost {
		return fmt.Errorf("%w: status is %s", ErrNotLost, g.status)
	}
	return g.load(g.level)
}

// Reset starts the current level over from any status except final victory.
// It lets a player escape deadlocks that the stuck check does not detect.
func (g *Game) Reset() error {
	if g.status == AllLevelsWon {
		return ErrGameFinished
	}
	return g.load(g.level)
}

// CanMove reports whether Input(d) would change the board
func (g *Game) CanMove(d Direction) bool {
	return g.status == InProgress && g.board.CanMove(d)
}

// PossibleMoves lists the directions that would change the board
func (g *Game) PossibleMoves() []Direction {
	if g.status != InProgress {
		return nil
	}
	return g.board.PossibleMoves()
}

// Tick advances the clock of a won or lost level. The caller measures time;
// the game only accumulates it.
func (g *Game) Tick(elapsed time.Duration) {
	if elapsed <= 0 || g.status == InProgress {
		return
	}
	g.sinceTransition += elapsed
}

// SinceTransition returns the time accumulated since the last win or loss
func (g *Game) SinceTransition() time.Duration {
	return g.sinceTransition
}

// ReadyToAdvance reports whether a won level has been shown for longer than delay
func (g *Game) ReadyToAdvance(delay time.Duration) bool {
	return g.status == Won && !g.catalog.IsLast(g.level) && g.sinceTransition > delay
}

// ReadyToRestart reports whether a lost level has been shown for longer than delay
func (g *Game) ReadyToRestart(delay time.Duration) bool {
	return g.status == Lost && g.sinceTransition > delay
}

// Moves returns the number of board-changing moves in this attempt
func (g *Game) Moves() int {
	return g.moves
}

// Pushes returns the number of box pushes in this attempt
func (g *Game) Pushes() int {
	return g.pushes
}

// Board returns a copy of the current board
func (g *Game) Board() *Board {
	return g.board.Clone()
}

// Message returns the player-facing text for the current status
func (g *Game) Message() string {
	switch g.status {
	case AllLevelsWon:
		return Messages.FinalVictory
	case Won:
		return Messages.Victory
	case Lost:
		if g.sinceTransition > DefaultTransitionDelay {
			return Messages.PressRestart
		}
		return Messages.Failed
	}
	return Messages.Welcome
}

// State builds the presentation view of the game
func (g *Game) State() *GameState {
	bp, _ := g.catalog.Blueprint(g.level)
	return &GameState{
		CatalogID:         g.catalog.ID(),
		CatalogName:       g.catalog.Name(),
		Level:             g.level,
		LevelCount:        g.catalog.LevelCount(),
		LevelName:         bp.Name,
		Width:             g.board.Width(),
		Height:            g.board.Height(),
		Rows:              g.board.Rows(),
		Player:            g.board.PlayerPos(),
		Boxes:             g.board.Boxes(),
		Targets:           g.board.Targets(),
		BoxesOnTarget:     g.board.BoxesOnTarget(),
		Status:            g.status,
		FinalVictory:      g.finalVictory,
		Moves:             g.moves,
		Pushes:            g.pushes,
		SinceTransitionMs: g.sinceTransition.Milliseconds(),
		Message:           g.Message(),
	}
}
