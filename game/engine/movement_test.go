package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptMove(t *testing.T) {
	tests := []struct {
		name       string
		rows       []string
		dir        Direction
		outcome    MoveOutcome
		wantPlayer Position
		wantBoxes  []Position
	}{
		{
			name:       "move onto floor",
			rows:       []string{"#####", "#P  #", "#####"},
			dir:        Right,
			outcome:    Moved,
			wantPlayer: Position{X: 2, Y: 1},
			wantBoxes:  []Position{},
		},
		{
			name:       "move onto target",
			rows:       []string{"#####", "#PO #", "#####"},
			dir:        Right,
			outcome:    Moved,
			wantPlayer: Position{X: 2, Y: 1},
			wantBoxes:  []Position{},
		},
		{
			name:       "wall blocks",
			rows:       []string{"#####", "#P  #", "#####"},
			dir:        Up,
			outcome:    Blocked,
			wantPlayer: Position{X: 1, Y: 1},
			wantBoxes:  []Position{},
		},
		{
			name:       "push box",
			rows:       []string{"######", "#PB  #", "######"},
			dir:        Right,
			outcome:    PushedBox,
			wantPlayer: Position{X: 2, Y: 1},
			wantBoxes:  []Position{{X: 3, Y: 1}},
		},
		{
			name:       "push box into wall",
			rows:       []string{"####", "#PB#", "#  #", "####"},
			dir:        Right,
			outcome:    Blocked,
			wantPlayer: Position{X: 1, Y: 1},
			wantBoxes:  []Position{{X: 2, Y: 1}},
		},
		{
			name:       "push box into box",
			rows:       []string{"######", "#PBB #", "######"},
			dir:        Right,
			outcome:    Blocked,
			wantPlayer: Position{X: 1, Y: 1},
			wantBoxes:  []Position{{X: 2, Y: 1}, {X: 3, Y: 1}},
		},
		{
			name:       "push box vertically",
			rows:       []string{"###", "#P#", "#B#", "# #", "###"},
			dir:        Down,
			outcome:    PushedBox,
			wantPlayer: Position{X: 1, Y: 2},
			wantBoxes:  []Position{{X: 1, Y: 3}},
		},
		{
			name:       "off the edge of an open grid",
			rows:       []string{"P"},
			dir:        Left,
			outcome:    Moved,
			wantPlayer: Position{X: -1, Y: 0},
			wantBoxes:  []Position{},
		},
		{
			name:       "unknown direction",
			rows:       []string{"#P #"},
			dir:        Direction("sideways"),
			outcome:    Blocked,
			wantPlayer: Position{X: 1, Y: 0},
			wantBoxes:  []Position{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board := mustParse(t, test.rows...)
			before := board.Clone()

			outcome := board.AttemptMove(test.dir)

			assert.Equal(t, test.outcome, outcome)
			assert.Equal(t, test.wantPlayer, board.PlayerPos())
			assert.ElementsMatch(t, test.wantBoxes, board.Boxes())
			if !outcome.Changed() {
				assert.True(t, board.Equal(before), "board must be unchanged after %s", outcome)
			}
		})
	}
}

func TestCanMoveMatchesAttemptMove(t *testing.T) {
	board := mustParse(t,
		"#######",
		"#  O  #",
		"# BPB #",
		"#  B  #",
		"#######",
	)

	for _, d := range Directions {
		probe := board.Clone()
		assert.Equal(t, board.CanMove(d), probe.AttemptMove(d).Changed(), "direction %s", d)
	}
	assert.ElementsMatch(t, []Direction{Up, Left, Right}, board.PossibleMoves())

	walled := mustParse(t, "###", "#P#", "###")
	assert.Empty(t, walled.PossibleMoves())
}

// TestRandomWalkInvariants drives random input through several levels and
// checks the board invariants after every step.
func TestRandomWalkInvariants(t *testing.T) {
	levels := [][]string{
		{"##########", "#     O  #", "# P  B   #", "#        #", "##########"},
		{"##########", "#   O   O#", "#  B B  P#", "#        #", "##########"},
		{"#########", "#  O   P#", "# B##B  #", "#   O  ##", "#########"},
		{"#######", "# BBB #", "#B P B#", "# BBB #", "#######"},
	}
	rng := rand.New(rand.NewSource(42))

	for i, rows := range levels {
		board := mustParse(t, rows...)
		initialBoxes := len(board.Boxes())

		for step := 0; step < 500; step++ {
			before := board.Clone()
			d := Directions[rng.Intn(len(Directions))]
			outcome := board.AttemptMove(d)

			if outcome == Blocked {
				require.True(t, board.Equal(before), "level %d step %d: blocked move changed the board", i, step)
			}
			require.False(t, board.IsWall(board.PlayerPos()), "level %d step %d: player inside wall", i, step)
			require.False(t, board.IsBox(board.PlayerPos()), "level %d step %d: player on a box", i, step)
			boxes := board.Boxes()
			require.Len(t, boxes, initialBoxes, "level %d step %d: boxes merged", i, step)
			for _, box := range boxes {
				require.False(t, board.IsWall(box), "level %d step %d: box inside wall", i, step)
			}
		}
	}
}
