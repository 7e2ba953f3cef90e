// Package solver finds move sequences that solve a level.
//
// Solve runs a breadth-first search over (player, boxes) states, applying
// the same move and win/stuck rules as the engine. States the engine would
// declare lost are never expanded, so the search space shrinks to positions
// a player could actually keep playing from.
package solver

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wricardo/sokoban-game/game/engine"
)

// DefaultLimit bounds the number of states explored by Solve
const DefaultLimit = 250000

var (
	ErrUnsolvable  = errors.New("level cannot be solved")
	ErrSearchLimit = errors.New("search limit reached")
	ErrSolved      = errors.New("level already solved")
)

// Solution is a shortest move sequence from the searched board to a win
type Solution struct {
	Moves    []engine.Direction `json:"moves"`
	Pushes   int                `json:"pushes"`
	Explored int                `json:"explored"`
}

type node struct {
	board  *engine.Board
	parent int
	dir    engine.Direction
	pushed bool
}

// Solve returns the shortest solution for board. A limit <= 0 uses DefaultLimit.
// The board itself is never modified.
func Solve(board *engine.Board, limit int) (*Solution, error) {
	if board == nil {
		return nil, errors.New("board cannot be nil")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	switch engine.Evaluate(board) {
	case engine.Won:
		return &Solution{Moves: []engine.Direction{}}, nil
	case engine.Lost:
		return nil, ErrUnsolvable
	}

	nodes := []node{{board: board.Clone(), parent: -1}}
	visited := map[string]bool{stateKey(board): true}

	for head := 0; head < len(nodes); head++ {
		if head >= limit {
			return nil, ErrSearchLimit
		}
		current := nodes[head]

		for _, dir := range engine.Directions {
			next := current.board.Clone()
			outcome := next.AttemptMove(dir)
			if !outcome.Changed() {
				continue
			}

			key := stateKey(next)
			if visited[key] {
				continue
			}
			visited[key] = true

			nodes = append(nodes, node{
				board:  next,
				parent: head,
				dir:    dir,
				pushed: outcome == engine.PushedBox,
			})

			switch engine.Evaluate(next) {
			case engine.Won:
				solution := path(nodes, len(nodes)-1)
				solution.Explored = head + 1
				return solution, nil
			case engine.Lost:
				// keep it visited but never expand it
				nodes = nodes[:len(nodes)-1]
			}
		}
	}

	return nil, ErrUnsolvable
}

// Hint returns the first move of the shortest solution
func Hint(board *engine.Board, limit int) (engine.Direction, error) {
	solution, err := Solve(board, limit)
	if err != nil {
		return "", err
	}
	if len(solution.Moves) == 0 {
		return "", ErrSolved
	}
	return solution.Moves[0], nil
}

func path(nodes []node, index int) *Solution {
	solution := &Solution{}
	for i := index; nodes[i].parent >= 0; i = nodes[i].parent {
		solution.Moves = append(solution.Moves, nodes[i].dir)
		if nodes[i].pushed {
			solution.Pushes++
		}
	}
	for l, r := 0, len(solution.Moves)-1; l < r; l, r = l+1, r-1 {
		solution.Moves[l], solution.Moves[r] = solution.Moves[r], solution.Moves[l]
	}
	return solution
}

// stateKey encodes the player and the sorted box positions
func stateKey(b *engine.Board) string {
	var sb strings.Builder
	writePos := func(p engine.Position) {
		sb.WriteString(strconv.Itoa(p.X))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.Y))
		sb.WriteByte(';')
	}
	writePos(b.PlayerPos())
	for _, box := range b.Boxes() {
		writePos(box)
	}
	return sb.String()
}
