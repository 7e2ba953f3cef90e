package engine

// AttemptMove moves the player one step in direction d, pushing a box when
// one is in the way. The board is only mutated for Moved and PushedBox.
func (b *Board) AttemptMove(d Direction) MoveOutcome {
	delta := d.Delta()
	if delta == (Position{}) {
		return Blocked
	}

	target := b.player.Add(delta)
	if b.walls.has(target) {
		return Blocked
	}

	if b.boxes.has(target) {
		beyond := target.Add(delta)
		if b.blocked(beyond) {
			return Blocked
		}
		b.boxes.remove(target)
		b.boxes.add(beyond)
		b.player = target
		return PushedBox
	}

	b.player = target
	return Moved
}

// CanMove reports whether AttemptMove(d) would change the board
func (b *Board) CanMove(d Direction) bool {
	delta := d.Delta()
	if delta == (Position{}) {
		return false
	}
	target := b.player.Add(delta)
	if b.walls.has(target) {
		return false
	}
	if b.boxes.has(target) {
		return !b.blocked(target.Add(delta))
	}
	return true
}

// PossibleMoves returns every direction the player can currently take
func (b *Board) PossibleMoves() []Direction {
	var possible []Direction
	for _, d := range Directions {
		if b.CanMove(d) {
			possible = append(possible, d)
		}
	}
	return possible
}
