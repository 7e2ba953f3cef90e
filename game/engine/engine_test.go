package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioB is the intended "right, then down onto the target" layout.
var scenarioB = Blueprint{Name: "scenario b", Rows: []string{
	"#####",
	"#P  #",
	"# B #",
	"# O #",
	"#####",
}}

var filler = Blueprint{Name: "filler", Rows: []string{
	"#####",
	"#PBO#",
	"#####",
}}

func createTestCatalog(t *testing.T, levels ...Blueprint) *Catalog {
	t.Helper()
	catalog, err := NewCatalog("test", "Test Catalog", "Levels for engine tests", levels...)
	require.NoError(t, err)
	return catalog
}

func createTestGame(t *testing.T, levels ...Blueprint) *Game {
	t.Helper()
	game, err := NewGame(createTestCatalog(t, levels...), 0)
	require.NoError(t, err)
	return game
}

func rows(r ...string) Blueprint {
	return Blueprint{Rows: r}
}

func TestNewGame(t *testing.T) {
	game := createTestGame(t, scenarioB, filler)

	assert.Equal(t, InProgress, game.Status())
	assert.Equal(t, 0, game.Level())
	assert.False(t, game.IsFinalVictory())
	assert.Zero(t, game.Moves())
	assert.Zero(t, game.SinceTransition())
	assert.Equal(t, Messages.Welcome, game.Message())

	_, err := NewGame(game.Catalog(), 2)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewGame(game.Catalog(), -1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewGame(nil, 0)
	assert.Error(t, err)
}

func TestScenarioA_PushIntoWallIsBlocked(t *testing.T) {
	game := createTestGame(t, rows("####", "#PB#", "#  #", "####"))
	before := game.Board()

	outcome := game.Input(Right)

	assert.Equal(t, Blocked, outcome)
	assert.Equal(t, Position{X: 1, Y: 1}, game.Board().PlayerPos())
	assert.True(t, game.Board().Equal(before))
	assert.Equal(t, InProgress, game.Status(), "blocked moves are not evaluated")
	assert.Zero(t, game.Moves())
}

func TestScenarioB_PushOntoTargetWins(t *testing.T) {
	game := createTestGame(t, scenarioB, filler)

	assert.Equal(t, Moved, game.Input(Right))
	assert.Equal(t, InProgress, game.Status())

	assert.Equal(t, PushedBox, game.Input(Down))
	assert.Equal(t, Won, game.Status())
	assert.False(t, game.IsFinalVictory())
	assert.Equal(t, Messages.Victory, game.Message())
	assert.Equal(t, 2, game.Moves())
	assert.Equal(t, 1, game.Pushes())
}

func TestScenarioB_LiteralGridIsLostImmediately(t *testing.T) {
	// The box starts at (3,1), wedged between the top wall and the right
	// wall, so the first successful move already exposes it as stuck.
	game := createTestGame(t, rows("#####", "#P B#", "#  O#", "#####"), filler)

	assert.Equal(t, Moved, game.Input(Right))
	assert.Equal(t, Lost, game.Status())
	assert.Equal(t, Rejected, game.Input(Down))
}

func TestScenarioC_WalledBox(t *testing.T) {
	t.Run("blocked push leaves the status alone", func(t *testing.T) {
		game := createTestGame(t, rows("####", "#PB#", "####"))

		assert.Equal(t, Blocked, game.Input(Right))
		assert.Equal(t, InProgress, game.Status())
		assert.Equal(t, Lost, Evaluate(game.Board()), "the layout itself is a loss")
		assert.Equal(t, []Position{{X: 2, Y: 1}}, game.Board().StuckBoxes())
	})

	t.Run("moving next to a walled box loses", func(t *testing.T) {
		game := createTestGame(t, rows("#####", "#P B#", "#####"))

		assert.Equal(t, Moved, game.Input(Right))
		assert.Equal(t, Lost, game.Status())
		assert.Equal(t, Messages.Failed, game.Message())
	})
}

func TestScenarioD_FinalLevelWin(t *testing.T) {
	game := createTestGame(t, scenarioB)

	game.Input(Right)
	game.Input(Down)

	assert.Equal(t, AllLevelsWon, game.Status())
	assert.True(t, game.IsFinalVictory())
	assert.Equal(t, Messages.FinalVictory, game.Message())

	before := game.Board()
	for _, d := range Directions {
		assert.Equal(t, Rejected, game.Input(d))
	}
	assert.True(t, game.Board().Equal(before))

	assert.ErrorIs(t, game.AdvanceLevel(), ErrNoNextLevel)
	assert.ErrorIs(t, game.RestartLevel(), ErrNotLost)
	assert.ErrorIs(t, game.Reset(), ErrGameFinished)
	assert.Equal(t, AllLevelsWon, game.Status())
}

func TestScenarioE_RestartWhileInProgress(t *testing.T) {
	game := createTestGame(t, scenarioB)
	game.Input(Right)
	before := game.Board()

	err := game.RestartLevel()

	assert.ErrorIs(t, err, ErrNotLost)
	assert.Equal(t, InProgress, game.Status())
	assert.True(t, game.Board().Equal(before))
	assert.Equal(t, 1, game.Moves())
}

func TestWinIgnoresSurplusBoxes(t *testing.T) {
	game := createTestGame(t, rows(
		"#######",
		"#PB O #",
		"#  B  #",
		"#######",
	), filler)

	game.Input(Right)
	assert.Equal(t, InProgress, game.Status())
	game.Input(Right)
	assert.Equal(t, Won, game.Status())
	assert.Equal(t, 1, game.Board().BoxesOnTarget())
	assert.Len(t, game.Board().Boxes(), 2)
}

func TestWinTakesPrecedenceOverStuckBox(t *testing.T) {
	game := createTestGame(t, rows(
		"#####",
		"#PBO#",
		"#B  #",
		"#####",
	), filler)

	game.Input(Right)
	assert.Equal(t, Won, game.Status())
}

func TestStuckCheckIgnoresPlayerAndBoxesOnTarget(t *testing.T) {
	board := mustParse(t,
		"#######",
		"#     #",
		"# PB  #",
		"#     #",
		"##O####",
	)
	assert.False(t, board.IsBoxStuck(Position{X: 3, Y: 2}))

	corner := mustParse(t,
		"#####",
		"#B P#",
		"#  O#",
		"#####",
	)
	assert.True(t, corner.IsBoxStuck(Position{X: 1, Y: 1}))
	assert.Equal(t, Lost, Evaluate(corner))

	onTarget := mustParse(t,
		"#######",
		"#OBP  #",
		"#   B #",
		"#   O #",
		"#######",
	)
	require.Equal(t, PushedBox, onTarget.AttemptMove(Left))
	assert.True(t, onTarget.IsBoxStuck(Position{X: 1, Y: 1}))
	assert.Empty(t, onTarget.StuckBoxes(), "boxes on targets are never reported")
	assert.Equal(t, InProgress, Evaluate(onTarget))
}

func TestStuckBetweenBoxes(t *testing.T) {
	board := mustParse(t,
		"#######",
		"#  B  #",
		"# BBB #",
		"#  B  #",
		"#P  OO#",
		"#######",
	)
	assert.True(t, board.IsBoxStuck(Position{X: 3, Y: 2}))
	assert.False(t, board.IsBoxStuck(Position{X: 2, Y: 2}))
	assert.Equal(t, Lost, Evaluate(board))
}

func TestStatusIsIdempotent(t *testing.T) {
	game := createTestGame(t, scenarioB, filler)
	game.Input(Right)
	first := game.Status()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, game.Status())
	}
	game.Input(Down)
	assert.Equal(t, Won, game.Status())
	assert.Equal(t, Won, game.Status())
}

func TestAdvanceLevel(t *testing.T) {
	game := createTestGame(t, scenarioB, filler)

	assert.ErrorIs(t, game.AdvanceLevel(), ErrNotWon)

	game.Input(Right)
	game.Input(Down)
	require.Equal(t, Won, game.Status())

	game.Tick(time.Second)
	game.Tick(time.Second)
	assert.Equal(t, 2*time.Second, game.SinceTransition())
	assert.False(t, game.ReadyToAdvance(DefaultTransitionDelay))
	game.Tick(time.Second)
	assert.False(t, game.ReadyToAdvance(DefaultTransitionDelay), "exactly the delay is not enough")
	game.Tick(time.Millisecond)
	assert.True(t, game.ReadyToAdvance(DefaultTransitionDelay))

	require.NoError(t, game.AdvanceLevel())
	assert.Equal(t, 1, game.Level())
	assert.Equal(t, InProgress, game.Status())
	assert.Zero(t, game.SinceTransition())
	assert.Zero(t, game.Moves())
	assert.Equal(t, Position{X: 1, Y: 1}, game.Board().PlayerPos())

	assert.Equal(t, PushedBox, game.Input(Right))
	assert.Equal(t, AllLevelsWon, game.Status())
	assert.False(t, game.ReadyToAdvance(0))
}

func TestRestartLevel(t *testing.T) {
	blueprint := rows("#####", "#P B#", "#####")
	game := createTestGame(t, blueprint)
	fresh := mustParse(t, blueprint.Rows...)

	game.Input(Right)
	require.Equal(t, Lost, game.Status())
	assert.Equal(t, Rejected, game.Input(Left))

	assert.False(t, game.ReadyToRestart(DefaultTransitionDelay))
	game.Tick(DefaultTransitionDelay + time.Millisecond)
	assert.True(t, game.ReadyToRestart(DefaultTransitionDelay))
	assert.Equal(t, Messages.PressRestart, game.Message())

	require.NoError(t, game.RestartLevel())
	assert.Equal(t, InProgress, game.Status())
	assert.True(t, game.Board().Equal(fresh))
	assert.Zero(t, game.SinceTransition())
}

func TestTickIgnoredWhileInProgress(t *testing.T) {
	game := createTestGame(t, scenarioB)
	game.Tick(10 * time.Second)
	game.Tick(-time.Second)
	assert.Zero(t, game.SinceTransition())
}

func TestReset(t *testing.T) {
	game := createTestGame(t, scenarioB, filler)
	fresh := game.Board()

	game.Input(Right)
	require.NoError(t, game.Reset())
	assert.True(t, game.Board().Equal(fresh))
	assert.Equal(t, InProgress, game.Status())
	assert.Zero(t, game.Moves())

	game.Input(Right)
	game.Input(Down)
	require.Equal(t, Won, game.Status())
	require.NoError(t, game.Reset())
	assert.Equal(t, 0, game.Level())
	assert.Equal(t, InProgress, game.Status())
}

func TestBoardReturnsCopy(t *testing.T) {
	game := createTestGame(t, scenarioB)
	board := game.Board()
	board.AttemptMove(Right)
	assert.Equal(t, Position{X: 1, Y: 1}, game.Board().PlayerPos())
}

func TestPossibleMovesStopsAfterLoss(t *testing.T) {
	game := createTestGame(t, rows("#####", "#P B#", "#####"))
	assert.True(t, game.CanMove(Right))
	game.Input(Right)
	assert.False(t, game.CanMove(Left))
	assert.Nil(t, game.PossibleMoves())
}

func TestState(t *testing.T) {
	game := createTestGame(t, scenarioB, filler)
	game.Input(Right)

	state := game.State()
	assert.Equal(t, "test", state.CatalogID)
	assert.Equal(t, "Test Catalog", state.CatalogName)
	assert.Equal(t, 0, state.Level)
	assert.Equal(t, 2, state.LevelCount)
	assert.Equal(t, "scenario b", state.LevelName)
	assert.Equal(t, 5, state.Width)
	assert.Equal(t, 5, state.Height)
	assert.Equal(t, []string{"#####", "# P #", "# B #", "# O #", "#####"}, state.Rows)
	assert.Equal(t, Position{X: 2, Y: 1}, state.Player)
	assert.Equal(t, []Position{{X: 2, Y: 2}}, state.Boxes)
	assert.Equal(t, []Position{{X: 2, Y: 3}}, state.Targets)
	assert.Equal(t, InProgress, state.Status)
	assert.Equal(t, 1, state.Moves)
}
