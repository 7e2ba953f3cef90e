package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, rows ...string) *Board {
	t.Helper()
	board, err := Parse(Blueprint{Rows: rows})
	require.NoError(t, err)
	return board
}

func TestParse(t *testing.T) {
	board := mustParse(t,
		"######",
		"#P B #",
		"#  O #",
		"######",
	)

	assert.Equal(t, Position{X: 1, Y: 1}, board.PlayerPos())
	assert.Equal(t, []Position{{X: 3, Y: 1}}, board.Boxes())
	assert.Equal(t, []Position{{X: 3, Y: 2}}, board.Targets())
	assert.Len(t, board.Walls(), 16)
	assert.Equal(t, 6, board.Width())
	assert.Equal(t, 4, board.Height())

	assert.True(t, board.IsWall(Position{X: 0, Y: 0}))
	assert.False(t, board.IsWall(Position{X: 2, Y: 1}))
	assert.True(t, board.IsBox(Position{X: 3, Y: 1}))
	assert.True(t, board.IsTarget(Position{X: 3, Y: 2}))
	assert.False(t, board.IsTarget(Position{X: 3, Y: 1}))
}

func TestParse_RaggedRowsAreFloor(t *testing.T) {
	board := mustParse(t,
		"#####",
		"#P",
		"#  B O#",
	)

	assert.Equal(t, 7, board.Width())
	assert.False(t, board.IsWall(Position{X: 4, Y: 1}))
	assert.Equal(t, []string{
		"#####  ",
		"#P     ",
		"#  B O#",
	}, board.Rows())
}

func TestParse_UnknownCharactersAreFloor(t *testing.T) {
	board := mustParse(t, "#P.x*+#")
	assert.Equal(t, []string{"#P    #"}, board.Rows())
	assert.Empty(t, board.Boxes())
	assert.Empty(t, board.Targets())
}

func TestParse_InvalidBlueprint(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"no player", []string{"####", "# B#", "####"}},
		{"two players", []string{"#####", "#P P#", "#####"}},
		{"empty", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(Blueprint{Rows: test.rows})
			assert.ErrorIs(t, err, ErrInvalidBlueprint)
		})
	}
}

func TestBoard_SolvedAllowsSurplusBoxes(t *testing.T) {
	board := mustParse(t, "#P  #")
	assert.True(t, board.Solved(), "a board without targets is trivially solved")

	board = mustParse(t, "#PB O#")
	assert.False(t, board.Solved())

	board.AttemptMove(Right)
	board.AttemptMove(Right)
	assert.True(t, board.Solved())
	assert.Equal(t, 1, board.BoxesOnTarget())
}

func TestBoard_CloneIsIndependent(t *testing.T) {
	board := mustParse(t, "#PB  #")
	clone := board.Clone()
	require.True(t, board.Equal(clone))

	clone.AttemptMove(Right)
	assert.False(t, board.Equal(clone))
	assert.Equal(t, Position{X: 1, Y: 0}, board.PlayerPos())
	assert.True(t, board.IsBox(Position{X: 2, Y: 0}))
	assert.False(t, board.Equal(nil))
}

func TestBoard_RowsMarksTargets(t *testing.T) {
	board := mustParse(t, "#PO B O#")
	board.AttemptMove(Right)
	assert.Equal(t, []string{"# + B O#"}, board.Rows())

	board.AttemptMove(Right)
	board.AttemptMove(Right)
	board.AttemptMove(Right)
	assert.Equal(t, []string{"# O  P*#"}, board.Rows())
	assert.Equal(t, "# O  P*#", board.String())
}
