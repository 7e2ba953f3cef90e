package engine

import (
	"fmt"
	"strings"
)

// Board holds the parsed layout of one level attempt. Walls and targets
// never change after Parse; boxes and the player move through AttemptMove.
type Board struct {
	width   int
	height  int
	walls   positionSet
	targets positionSet
	boxes   positionSet
	player  Position
}

// Parse scans the blueprint row by row. Rows may be ragged; missing cells are floor.
func Parse(bp Blueprint) (*Board, error) {
	b := &Board{
		height:  len(bp.Rows),
		walls:   make(positionSet),
		targets: make(positionSet),
		boxes:   make(positionSet),
	}

	players := 0
	for y, row := range bp.Rows {
		if len(row) > b.width {
			b.width = len(row)
		}
		for x, char := range []byte(row) {
			pos := Position{X: x, Y: y}
			switch char {
			case WallChar:
				b.walls.add(pos)
			case PlayerChar:
				b.player = pos
				players++
			case BoxChar:
				b.boxes.add(pos)
			case TargetChar:
				b.targets.add(pos)
			}
		}
	}

	if players != 1 {
		return nil, fmt.Errorf("%w: found %d player cells, want exactly 1", ErrInvalidBlueprint, players)
	}
	return b, nil
}

// IsWall reports whether pos is a wall
func (b *Board) IsWall(pos Position) bool {
	return b.walls.has(pos)
}

// IsBox reports whether a box currently sits on pos
func (b *Board) IsBox(pos Position) bool {
	return b.boxes.has(pos)
}

// IsTarget reports whether pos is a target cell
func (b *Board) IsTarget(pos Position) bool {
	return b.targets.has(pos)
}

// PlayerPos returns the player's position
func (b *Board) PlayerPos() Position {
	return b.player
}

// Width is the length of the longest blueprint row
func (b *Board) Width() int {
	return b.width
}

// Height is the number of blueprint rows
func (b *Board) Height() int {
	return b.height
}

// Boxes returns the box positions in row-major order
func (b *Board) Boxes() []Position {
	return b.boxes.sorted()
}

// Targets returns the target positions in row-major order
func (b *Board) Targets() []Position {
	return b.targets.sorted()
}

// Walls returns the wall positions in row-major order
func (b *Board) Walls() []Position {
	return b.walls.sorted()
}

// BoxesOnTarget counts boxes that cover a target
func (b *Board) BoxesOnTarget() int {
	count := 0
	for pos := range b.boxes {
		if b.targets.has(pos) {
			count++
		}
	}
	return count
}

// Solved reports whether every target is covered by a box. Surplus boxes
// parked elsewhere do not matter.
func (b *Board) Solved() bool {
	for pos := range b.targets {
		if !b.boxes.has(pos) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy
func (b *Board) Clone() *Board {
	return &Board{
		width:   b.width,
		height:  b.height,
		walls:   b.walls,
		targets: b.targets,
		boxes:   b.boxes.clone(),
		player:  b.player,
	}
}

// Equal reports whether both boards have identical cells and player position
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.width == other.width &&
		b.height == other.height &&
		b.player == other.player &&
		b.walls.equal(other.walls) &&
		b.targets.equal(other.targets) &&
		b.boxes.equal(other.boxes)
}

// Rows renders the board as a rectangular grid of text. Boxes on targets are
// drawn as '*' and a player standing on a target as '+'.
func (b *Board) Rows() []string {
	rows := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		var sb strings.Builder
		for x := 0; x < b.width; x++ {
			sb.WriteByte(b.cellChar(Position{X: x, Y: y}))
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders the board with one row per line
func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

func (b *Board) cellChar(pos Position) byte {
	switch {
	case b.walls.has(pos):
		return WallChar
	case pos == b.player && b.targets.has(pos):
		return PlayerOnTargetChar
	case pos == b.player:
		return PlayerChar
	case b.boxes.has(pos) && b.targets.has(pos):
		return BoxOnTargetChar
	case b.boxes.has(pos):
		return BoxChar
	case b.targets.has(pos):
		return TargetChar
	}
	return FloorChar
}

// blocked reports whether pos holds a wall or a box
func (b *Board) blocked(pos Position) bool {
	return b.walls.has(pos) || b.boxes.has(pos)
}
