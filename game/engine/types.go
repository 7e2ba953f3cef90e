package engine

import (
	"fmt"
	"strings"
	"time"
)

// Blueprint characters
const (
	WallChar   = '#'
	PlayerChar = 'P'
	BoxChar    = 'B'
	TargetChar = 'O'
	FloorChar  = ' '

	// Rendering only, never parsed back
	BoxOnTargetChar    = '*'
	PlayerOnTargetChar = '+'
)

const (
	// DefaultTransitionDelay is how long a won or lost level stays on screen
	// before the next level starts or a restart is accepted.
	DefaultTransitionDelay = 3000 * time.Millisecond

	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by d
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four axis moves
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection accepts "up", "down", "left" and "right" in any case
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Up, Down, Left, Right:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Delta returns the unit offset for one step. Up decreases Y.
func (d Direction) Delta() Position {
	switch d {
	case Up:
		return Position{X: 0, Y: -1}
	case Down:
		return Position{X: 0, Y: 1}
	case Left:
		return Position{X: -1, Y: 0}
	case Right:
		return Position{X: 1, Y: 0}
	}
	return Position{}
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// MoveOutcome reports what a single input did to the board
type MoveOutcome string

const (
	Moved     MoveOutcome = "moved"
	PushedBox MoveOutcome = "pushed_box"
	Blocked   MoveOutcome = "blocked"
	Rejected  MoveOutcome = "rejected"
)

// Changed reports whether the outcome mutated the board
func (o MoveOutcome) Changed() bool {
	return o == Moved || o == PushedBox
}

// Status is the puzzle state of the current level attempt
type Status string

const (
	InProgress   Status = "in_progress"
	Won          Status = "won"
	Lost         Status = "lost"
	AllLevelsWon Status = "all_levels_won"
)

// Messages shown to the player for each status
var Messages = struct {
	Welcome      string
	Victory      string
	Failed       string
	PressRestart string
	FinalVictory string
}{
	Welcome:      "Push every box onto a target.",
	Victory:      "You passed! You will go into next stage after 3 seconds.",
	Failed:       "You failed! ",
	PressRestart: "Press any button to restart.",
	FinalVictory: "You have passed all the stages",
}

// GameState is the read-only view of a game handed to presentation layers
type GameState struct {
	CatalogID         string     `json:"catalog_id"`
	CatalogName       string     `json:"catalog_name"`
	Level             int        `json:"level"`
	LevelCount        int        `json:"level_count"`
	LevelName         string     `json:"level_name,omitempty"`
	Width             int        `json:"width"`
	Height            int        `json:"height"`
	Rows              []string   `json:"rows"`
	Player            Position   `json:"player"`
	Boxes             []Position `json:"boxes"`
	Targets           []Position `json:"targets"`
	BoxesOnTarget     int        `json:"boxes_on_target"`
	Status            Status     `json:"status"`
	FinalVictory      bool       `json:"final_victory"`
	Moves             int        `json:"moves"`
	Pushes            int        `json:"pushes"`
	SinceTransitionMs int64      `json:"since_transition_ms"`
	Message           string     `json:"message"`
}
