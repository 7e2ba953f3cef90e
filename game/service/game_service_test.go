package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
)

var (
	errSessionNotFound = errors.New("session not found")
	errCatalogNotFound = errors.New("catalog not found")
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, catalog *engine.Catalog, level int) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	game, err := engine.NewGame(catalog, level)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Game:           game,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errSessionNotFound
	}
	m.saves++
	return nil
}

// MockCatalogManager implements service.CatalogManager for testing
type MockCatalogManager struct {
	catalogs map[string]*engine.Catalog
}

var (
	// pushWin is won by one push to the right
	pushWin = engine.Blueprint{Name: "push", Rows: []string{"#####", "#PBO#", "#####"}}
	// twoPushes needs right, right
	twoPushes = engine.Blueprint{Name: "two", Rows: []string{"######", "#PB O#", "######"}}
	// trap is lost by right, right
	trap = engine.Blueprint{Name: "trap", Rows: []string{"######", "#P B #", "#O   #", "######"}}
)

func NewMockCatalogManager() *MockCatalogManager {
	return &MockCatalogManager{
		catalogs: map[string]*engine.Catalog{
			"test": engine.MustCatalog("test", "Test", "Two quick levels", pushWin, twoPushes),
			"trap": engine.MustCatalog("trap", "Trap", "A level to lose", trap, pushWin),
		},
	}
}

func (m *MockCatalogManager) LoadCatalog(id string) (*engine.Catalog, error) {
	catalog, exists := m.catalogs[id]
	if !exists {
		return nil, errCatalogNotFound
	}
	return catalog, nil
}

func (m *MockCatalogManager) ListCatalogs() ([]*service.CatalogInfo, error) {
	result := make([]*service.CatalogInfo, 0, len(m.catalogs))
	for _, id := range []string{"test", "trap"} {
		catalog := m.catalogs[id]
		result = append(result, &service.CatalogInfo{
			ID:         catalog.ID(),
			Name:       catalog.Name(),
			LevelCount: catalog.LevelCount(),
			Default:    id == "test",
		})
	}
	return result, nil
}

func (m *MockCatalogManager) GetDefault() *engine.Catalog {
	return m.catalogs["test"]
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, opts ...service.Option) (service.GameService, *MockSessionManager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	sessions := NewMockSessionManager()
	opts = append([]service.Option{service.WithClock(clock.Now)}, opts...)
	return service.NewGameService(sessions, NewMockCatalogManager(), opts...), sessions, clock
}

func createSession(t *testing.T, svc service.GameService, catalogID string) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), catalogID, 0)
	require.NoError(t, err)
	return info.ID
}

func eventTypes(events []service.GameEvent) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tests := []struct {
		name      string
		catalogID string
		level     int
		wantErr   error
		wantLevel int
	}{
		{name: "default catalog", catalogID: "", wantLevel: 0},
		{name: "specific catalog", catalogID: "trap", wantLevel: 0},
		{name: "later level", catalogID: "test", level: 1, wantLevel: 1},
		{name: "unknown catalog", catalogID: "nonexistent", wantErr: errCatalogNotFound},
		{name: "level out of range", catalogID: "test", level: 5, wantErr: engine.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.catalogID, tt.level)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, info.ID)
			assert.Equal(t, tt.wantLevel, info.GameState.Level)
			assert.Equal(t, engine.InProgress, info.GameState.Status)
			if tt.catalogID != "" {
				assert.Equal(t, tt.catalogID, info.CatalogID)
			} else {
				assert.Equal(t, "test", info.CatalogID)
			}
		})
	}
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	id := createSession(t, svc, "test")
	createSession(t, svc, "trap")

	info, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)

	all, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.DeleteSession(ctx, id))
	_, err = svc.GetSession(ctx, id)
	assert.ErrorIs(t, err, errSessionNotFound)
	assert.ErrorIs(t, svc.DeleteSession(ctx, id), errSessionNotFound)
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService(t)
	id := createSession(t, svc, "test")

	t.Run("invalid direction", func(t *testing.T) {
		_, err := svc.Move(ctx, id, "sideways")
		assert.ErrorIs(t, err, engine.ErrInvalidDirection)
	})

	t.Run("invalid session", func(t *testing.T) {
		_, err := svc.Move(ctx, "nope", "up")
		assert.ErrorIs(t, err, errSessionNotFound)
	})

	t.Run("blocked", func(t *testing.T) {
		result, err := svc.Move(ctx, id, "up")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, engine.Blocked, result.Outcome)
		assert.Equal(t, []string{service.EventBlocked}, eventTypes(result.Events))
		assert.Equal(t, engine.Position{X: 1, Y: 1}, result.GameState.Player)
	})

	t.Run("push onto target wins", func(t *testing.T) {
		result, err := svc.Move(ctx, id, "RIGHT")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, engine.PushedBox, result.Outcome)
		assert.Equal(t, engine.Won, result.GameState.Status)
		assert.Equal(t, engine.Messages.Victory, result.Message)
		assert.Equal(t, []string{service.EventPush, service.EventLevelWon}, eventTypes(result.Events))
		require.NotNil(t, result.Step)
		assert.Equal(t, engine.Position{X: 1, Y: 1}, result.Step.From)
		assert.Equal(t, engine.Position{X: 2, Y: 1}, result.Step.To)
		assert.Empty(t, result.PossibleMoves)
		for _, e := range result.Events {
			assert.NotEmpty(t, e.ID)
		}
	})

	t.Run("input rejected while the win is shown", func(t *testing.T) {
		result, err := svc.Move(ctx, id, "left")
		require.NoError(t, err)
		assert.Equal(t, engine.Rejected, result.Outcome)
		assert.Equal(t, engine.Won, result.GameState.Status)
	})

	assert.Positive(t, sessions.saves)
}

func TestGameService_AutoAdvance(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t)
	id := createSession(t, svc, "test")

	_, err := svc.Move(ctx, id, "right")
	require.NoError(t, err)

	clock.Advance(engine.DefaultTransitionDelay)
	state, err := svc.GetGameState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, engine.Won, state.Status)
	assert.Equal(t, int64(3000), state.SinceTransitionMs)

	clock.Advance(time.Millisecond)
	updates, err := svc.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, id, updates[0].SessionID)
	assert.Equal(t, []string{service.EventLevelAdvanced}, eventTypes(updates[0].Events))
	assert.Equal(t, 1, updates[0].GameState.Level)
	assert.Equal(t, engine.InProgress, updates[0].GameState.Status)

	updates, err = svc.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, updates)

	result, err := svc.BulkMove(ctx, id, []string{"right", "right"})
	require.NoError(t, err)
	assert.Equal(t, engine.AllLevelsWon, result.GameState.Status)
	assert.True(t, result.GameState.FinalVictory)
	assert.Equal(t, service.EventAllLevelsWon, result.StopReasonCode)

	clock.Advance(time.Minute)
	state, err = svc.GetGameState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, engine.AllLevelsWon, state.Status)
	assert.Equal(t, engine.Messages.FinalVictory, state.Message)
}

func TestGameService_AdvanceLevel(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t, service.WithAutoAdvance(false))
	id := createSession(t, svc, "test")

	_, err := svc.AdvanceLevel(ctx, id)
	assert.ErrorIs(t, err, engine.ErrNotWon)

	_, err = svc.Move(ctx, id, "right")
	require.NoError(t, err)

	_, err = svc.AdvanceLevel(ctx, id)
	assert.ErrorIs(t, err, service.ErrTransitionPending)

	clock.Advance(engine.DefaultTransitionDelay + time.Millisecond)
	updates, err := svc.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, []string{service.EventAdvanceReady}, eventTypes(updates[0].Events))
	assert.Equal(t, 0, updates[0].GameState.Level, "auto-advance is off")

	state, err := svc.AdvanceLevel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Level)
	assert.Equal(t, engine.InProgress, state.Status)
}

func TestGameService_LostLevel(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t, service.WithTransitionDelay(time.Second))
	id := createSession(t, svc, "trap")

	result, err := svc.BulkMove(ctx, id, []string{"right", "right", "down"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.MovesExecuted)
	assert.Equal(t, 2, result.StoppedOnMove)
	assert.Equal(t, service.EventLevelLost, result.StopReasonCode)
	assert.Equal(t, engine.Lost, result.GameState.Status)
	assert.Equal(t, engine.Messages.Failed, result.Message)

	_, err = svc.RestartLevel(ctx, id)
	assert.ErrorIs(t, err, service.ErrTransitionPending)

	moved, err := svc.Move(ctx, id, "left")
	require.NoError(t, err)
	assert.Equal(t, engine.Rejected, moved.Outcome)
	assert.Equal(t, engine.Lost, moved.GameState.Status)

	clock.Advance(time.Second + time.Millisecond)
	updates, err := svc.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, []string{service.EventRestartReady}, eventTypes(updates[0].Events))

	moved, err = svc.Move(ctx, id, "up")
	require.NoError(t, err)
	assert.Equal(t, []string{service.EventLevelRestarted}, eventTypes(moved.Events))
	assert.Equal(t, engine.InProgress, moved.GameState.Status)
	assert.Equal(t, engine.Position{X: 1, Y: 1}, moved.GameState.Player)
	assert.Zero(t, moved.GameState.Moves)
}

func TestGameService_RestartLevel(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t)
	id := createSession(t, svc, "trap")

	_, err := svc.RestartLevel(ctx, id)
	assert.ErrorIs(t, err, engine.ErrNotLost)

	_, err = svc.BulkMove(ctx, id, []string{"right", "right"})
	require.NoError(t, err)

	clock.Advance(engine.DefaultTransitionDelay + time.Millisecond)
	state, err := svc.RestartLevel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, engine.InProgress, state.Status)
	assert.Equal(t, 0, state.Level)
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()

	t.Run("no moves", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := createSession(t, svc, "test")
		_, err := svc.BulkMove(ctx, id, nil)
		assert.ErrorIs(t, err, service.ErrNoMoves)
	})

	t.Run("stops when blocked", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := createSession(t, svc, "trap")
		result, err := svc.BulkMove(ctx, id, []string{"right", "up", "right"})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 1, result.MovesExecuted)
		assert.Equal(t, 2, result.StoppedOnMove)
		assert.Equal(t, "blocked", result.StopReasonCode)
		assert.Equal(t, engine.Position{X: 1, Y: 1}, result.StartPos)
		assert.Equal(t, engine.Position{X: 2, Y: 1}, result.EndPos)
		assert.Equal(t, engine.InProgress, result.GameState.Status)
	})

	t.Run("stops on invalid direction", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := createSession(t, svc, "trap")
		result, err := svc.BulkMove(ctx, id, []string{"right", "north"})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 1, result.MovesExecuted)
		assert.Equal(t, "invalid_direction", result.StopReasonCode)
	})

	t.Run("stops on win", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		info, err := svc.CreateSession(ctx, "test", 1)
		require.NoError(t, err)
		result, err := svc.BulkMove(ctx, info.ID, []string{"right", "right", "left"})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 2, result.MovesExecuted)
		assert.Equal(t, 2, result.PushesMade)
		assert.Len(t, result.Steps, 2)
		assert.Equal(t, engine.AllLevelsWon, result.Steps[1].Status)
	})

	t.Run("truncates long sequences", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		id := createSession(t, svc, "trap")
		moves := make([]string, engine.MaxBulkMoves+10)
		for i := range moves {
			moves[i] = "left"
		}
		result, err := svc.BulkMove(ctx, id, moves)
		require.NoError(t, err)
		assert.True(t, result.Truncated)
		assert.Equal(t, engine.MaxBulkMoves, result.Limit)
		assert.Equal(t, engine.MaxBulkMoves+10, result.RequestedMoves)
	})
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := createSession(t, svc, "trap")

	_, err := svc.Move(ctx, id, "right")
	require.NoError(t, err)

	state, err := svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, engine.Position{X: 1, Y: 1}, state.Player)
	assert.Zero(t, state.Moves)

	_, err = svc.Reset(ctx, "missing")
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestGameService_Hint(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	info, err := svc.CreateSession(ctx, "test", 1)
	require.NoError(t, err)

	hint, err := svc.Hint(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.Right, hint.Direction)
	assert.Equal(t, []engine.Direction{engine.Right, engine.Right}, hint.Solution)
	assert.Equal(t, 2, hint.Pushes)

	_, err = svc.BulkMove(ctx, info.ID, []string{"right", "right"})
	require.NoError(t, err)

	_, err = svc.Hint(ctx, info.ID)
	assert.ErrorIs(t, err, service.ErrNoHint)
}

func TestGameService_Catalogs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	catalogs, err := svc.ListCatalogs(ctx)
	require.NoError(t, err)
	assert.Len(t, catalogs, 2)

	catalog, err := svc.GetCatalog(ctx, "trap")
	require.NoError(t, err)
	assert.Equal(t, "Trap", catalog.Name)
	assert.False(t, catalog.Default)
	require.Len(t, catalog.Levels, 2)
	assert.Equal(t, trap.Rows, catalog.Levels[0].Rows)

	_, err = svc.GetCatalog(ctx, "missing")
	assert.ErrorIs(t, err, errCatalogNotFound)
}

func TestGameService_TickHonorsContext(t *testing.T) {
	svc, _, _ := newTestService(t)
	createSession(t, svc, "test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Tick(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
