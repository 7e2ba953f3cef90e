package engine

import "sort"

// positionSet is a set of grid cells
type positionSet map[Position]struct{}

func newPositionSet(positions ...Position) positionSet {
	s := make(positionSet, len(positions))
	for _, p := range positions {
		s.add(p)
	}
	return s
}

func (s positionSet) add(p Position) {
	s[p] = struct{}{}
}

func (s positionSet) remove(p Position) {
	delete(s, p)
}

func (s positionSet) has(p Position) bool {
	_, ok := s[p]
	return ok
}

func (s positionSet) clone() positionSet {
	c := make(positionSet, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

func (s positionSet) equal(other positionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.has(p) {
			return false
		}
	}
	return true
}

// sorted returns the members in row-major order
func (s positionSet) sorted() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	SortPositions(out)
	return out
}

// SortPositions orders positions row-major (by Y, then X)
func SortPositions(positions []Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
