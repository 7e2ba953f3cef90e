package engine

// axes pairs each direction with its opposite once
var axes = []Direction{Left, Up}

// IsBoxStuck reports whether the box at pos cannot be pushed along either
// axis. An axis is usable only if both neighbours on it are free of walls and
// boxes; the player never counts as an obstacle. This only catches boxes that
// are wedged on their own, not deadlocks formed by several boxes together.
func (b *Board) IsBoxStuck(pos Position) bool {
	for _, d := range axes {
		ahead := pos.Add(d.Delta())
		behind := pos.Add(d.Opposite().Delta())
		if !b.blocked(ahead) && !b.blocked(behind) {
			return false
		}
	}
	return true
}

// StuckBoxes returns every off-target box that IsBoxStuck flags
func (b *Board) StuckBoxes() []Position {
	var stuck []Position
	for _, pos := range b.boxes.sorted() {
		if !b.targets.has(pos) && b.IsBoxStuck(pos) {
			stuck = append(stuck, pos)
		}
	}
	return stuck
}

// Evaluate classifies the board after a successful move. The win check runs
// first, so a solved board is never reported lost.
func Evaluate(b *Board) Status {
	if b.Solved() {
		return Won
	}
	for pos := range b.boxes {
		if !b.targets.has(pos) && b.IsBoxStuck(pos) {
			return Lost
		}
	}
	return InProgress
}
