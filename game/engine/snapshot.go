package engine

import (
	"fmt"
	"time"
)

// Snapshot is the serializable progress of a Game. Walls and targets are not
// stored; they come from the catalog when the snapshot is restored.
type Snapshot struct {
	CatalogID         string     `json:"catalog_id"`
	Level             int        `json:"level"`
	Player            Position   `json:"player"`
	Boxes             []Position `json:"boxes"`
	Status            Status     `json:"status"`
	FinalVictory      bool       `json:"final_victory"`
	SinceTransitionMs int64      `json:"since_transition_ms"`
	Moves             int        `json:"moves"`
	Pushes            int        `json:"pushes"`
}

// Snapshot captures the current progress
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		CatalogID:         g.catalog.ID(),
		Level:             g.level,
		Player:            g.board.PlayerPos(),
		Boxes:             g.board.Boxes(),
		Status:            g.status,
		FinalVictory:      g.finalVictory,
		SinceTransitionMs: g.sinceTransition.Milliseconds(),
		Moves:             g.moves,
		Pushes:            g.pushes,
	}
}

// RestoreGame rebuilds a Game from a snapshot, checking that the stored
// positions still fit the level's walls and box count.
func RestoreGame(catalog *Catalog, s Snapshot) (*Game, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if s.CatalogID != "" && s.CatalogID != catalog.ID() {
		return nil, fmt.Errorf("%w: snapshot is for catalog %s, not %s", ErrInvalidSnapshot, s.CatalogID, catalog.ID())
	}

	g, err := NewGame(catalog, s.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	switch s.Status {
	case InProgress, Won, Lost:
	case AllLevelsWon:
		if !catalog.IsLast(s.Level) {
			return nil, fmt.Errorf("%w: final victory on level %d of %d", ErrInvalidSnapshot, s.Level+1, catalog.LevelCount())
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidSnapshot, s.Status)
	}

	boxes := newPositionSet(s.Boxes...)
	if len(boxes) != len(s.Boxes) {
		return nil, fmt.Errorf("%w: two boxes share a cell", ErrInvalidSnapshot)
	}
	if len(boxes) != len(g.board.boxes) {
		return nil, fmt.Errorf("%w: level has %d boxes, snapshot has %d", ErrInvalidSnapshot, len(g.board.boxes), len(boxes))
	}
	for pos := range boxes {
		if g.board.walls.has(pos) {
			return nil, fmt.Errorf("%w: box inside wall at %s", ErrInvalidSnapshot, pos)
		}
	}
	if g.board.walls.has(s.Player) || boxes.has(s.Player) {
		return nil, fmt.Errorf("%w: player blocked at %s", ErrInvalidSnapshot, s.Player)
	}

	g.board.boxes = boxes
	g.board.player = s.Player
	g.status = s.Status
	g.finalVictory = s.FinalVictory || s.Status == AllLevelsWon
	g.sinceTransition = time.Duration(s.SinceTransitionMs) * time.Millisecond
	g.moves = s.Moves
	g.pushes = s.Pushes
	return g, nil
}
