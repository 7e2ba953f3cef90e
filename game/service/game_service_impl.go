package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/solver"
)

var (
	ErrTransitionPending = errors.New("transition still pending")
	ErrNoMoves           = errors.New("no moves given")
	ErrNoHint            = errors.New("no hint available")
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithTransitionDelay sets how long a won or lost level is shown before it
// can be advanced or restarted
func WithTransitionDelay(delay time.Duration) Option {
	return func(s *gameServiceImpl) {
		s.delay = delay
	}
}

// WithAutoAdvance advances won levels as soon as the transition delay passes
func WithAutoAdvance(enabled bool) Option {
	return func(s *gameServiceImpl) {
		s.autoAdvance = enabled
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) {
		s.now = now
	}
}

// WithHintLimit bounds the solver search used by Hint
func WithHintLimit(limit int) Option {
	return func(s *gameServiceImpl) {
		s.hintLimit = limit
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	catalogs    CatalogManager
	delay       time.Duration
	autoAdvance bool
	hintLimit   int
	now         func() time.Time
	mu          sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, catalogs CatalogManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:    sessions,
		catalogs:    catalogs,
		delay:       engine.DefaultTransitionDelay,
		autoAdvance: true,
		hintLimit:   solver.DefaultLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession starts a new game on the given catalog and level
func (s *gameServiceImpl) CreateSession(ctx context.Context, catalogID string, level int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog := s.catalogs.GetDefault()
	if catalogID != "" {
		var err error
		catalog, err = s.catalogs.LoadCatalog(catalogID)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog %s: %w", catalogID, err)
		}
	}
	if catalog == nil {
		return nil, fmt.Errorf("no default catalog configured")
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", catalog, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.LastTickAt = s.now()

	log.WithFields(log.Fields{
		"session": sess.ID,
		"catalog": catalog.ID(),
		"level":   level + 1,
	}).Info("session created")

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.catchUp(sess)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions, most recently used first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		s.catchUp(sess)
		result = append(result, s.sessionInfo(sess))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].LastAccessedAt.After(result[j].LastAccessedAt)
	})
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move applies a single input. Once a lost level has been shown for the
// transition delay, any move restarts it instead.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	events := s.catchUp(sess)
	game := sess.Game

	result := &MoveResult{Outcome: engine.Rejected}

	if game.ReadyToRestart(s.delay) {
		if err := game.RestartLevel(); err != nil {
			return nil, err
		}
		events = append(events, s.newEvent(EventLevelRestarted, game, fmt.Sprintf("Level %d restarted", game.Level()+1), nil))
	} else {
		step, stepEvents := s.apply(game, dir, 1)
		events = append(events, stepEvents...)
		result.Success = step.Outcome.Changed()
		result.Outcome = step.Outcome
		result.Step = &step
	}

	state := game.State()
	result.GameState = state
	result.Message = state.Message
	result.Events = events
	result.PossibleMoves = game.PossibleMoves()

	s.save(sessionID, "move")
	return result, nil
}

// BulkMove applies up to engine.MaxBulkMoves inputs, stopping at the first
// one that is blocked or changes the level status.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(moves) == 0 {
		return nil, ErrNoMoves
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	game := sess.Game

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Success:        true,
		Events:         s.catchUp(sess),
		StartPos:       game.Board().PlayerPos(),
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.stop(false, i+1, "invalid_direction", err.Error())
			break
		}

		step, events := s.apply(game, dir, i+1)
		result.Events = append(result.Events, events...)

		if !step.Outcome.Changed() {
			result.stop(false, i+1, string(step.Outcome), fmt.Sprintf("move %d %s: %s", i+1, step.Outcome, move))
			break
		}

		result.Steps = append(result.Steps, step)
		result.MovesExecuted++
		if step.Outcome == engine.PushedBox {
			result.PushesMade++
		}

		if step.Status != engine.InProgress {
			code := statusEventType(step.Status)
			result.stop(true, i+1, code, fmt.Sprintf("move %d ended the level: %s", i+1, step.Status))
			break
		}
	}

	state := game.State()
	result.GameState = state
	result.EndPos = state.Player
	result.Message = state.Message
	result.PossibleMoves = game.PossibleMoves()

	s.save(sessionID, "bulk move")
	return result, nil
}

func (r *BulkMoveResult) stop(success bool, move int, code, reason string) {
	r.Success = success
	r.StoppedOnMove = move
	r.StopReasonCode = code
	r.StoppedReason = reason
}

// AdvanceLevel moves a won session to the next level once the win has been shown
func (s *gameServiceImpl) AdvanceLevel(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.catchUp(sess)
	game := sess.Game

	if game.Status() == engine.Won && !game.ReadyToAdvance(s.delay) {
		return nil, s.pending(game)
	}
	if err := game.AdvanceLevel(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"session": sessionID, "level": game.Level() + 1}).Info("level advanced")
	s.save(sessionID, "advance")
	return game.State(), nil
}

// RestartLevel starts a lost level over once the loss has been shown
func (s *gameServiceImpl) RestartLevel(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.catchUp(sess)
	game := sess.Game

	if game.Status() == engine.Lost && !game.ReadyToRestart(s.delay) {
		return nil, s.pending(game)
	}
	if err := game.RestartLevel(); err != nil {
		return nil, err
	}

	s.save(sessionID, "restart")
	return game.State(), nil
}

// Reset starts the current level over regardless of its status
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.catchUp(sess)

	if err := sess.Game.Reset(); err != nil {
		return nil, err
	}

	s.save(sessionID, "reset")
	return sess.Game.State(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.catchUp(sess)

	return sess.Game.State(), nil
}

// Hint solves the current board and returns the first move
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.catchUp(sess)

	if status := sess.Game.Status(); status != engine.InProgress {
		return nil, fmt.Errorf("%w: level is %s", ErrNoHint, status)
	}

	solution, err := solver.Solve(sess.Game.Board(), s.hintLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoHint, err)
	}
	if len(solution.Moves) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoHint, solver.ErrSolved)
	}

	return &HintResult{
		Direction: solution.Moves[0],
		Solution:  solution.Moves,
		Pushes:    solution.Pushes,
		Explored:  solution.Explored,
	}, nil
}

// Tick feeds elapsed time into every session and reports the ones whose
// transitions fired
func (s *gameServiceImpl) Tick(ctx context.Context) ([]*SessionUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updates []*SessionUpdate
	for _, sess := range s.sessions.List() {
		if err := ctx.Err(); err != nil {
			return updates, err
		}

		events := s.catchUp(sess)
		if len(events) == 0 {
			continue
		}
		updates = append(updates, &SessionUpdate{
			SessionID: sess.ID,
			GameState: sess.Game.State(),
			Events:    events,
		})
		s.save(sess.ID, "tick")
	}
	return updates, nil
}

// ListCatalogs returns the available catalogs
func (s *gameServiceImpl) ListCatalogs(ctx context.Context) ([]*CatalogInfo, error) {
	return s.catalogs.ListCatalogs()
}

// GetCatalog returns one catalog including its level blueprints
func (s *gameServiceImpl) GetCatalog(ctx context.Context, catalogID string) (*CatalogInfo, error) {
	catalog, err := s.catalogs.LoadCatalog(catalogID)
	if err != nil {
		return nil, err
	}

	info := &CatalogInfo{
		ID:          catalog.ID(),
		Name:        catalog.Name(),
		Description: catalog.Description(),
		LevelCount:  catalog.LevelCount(),
		Default:     catalog == s.catalogs.GetDefault(),
		Levels:      make([]engine.Blueprint, 0, catalog.LevelCount()),
	}
	for i := 0; i < catalog.LevelCount(); i++ {
		bp, err := catalog.Blueprint(i)
		if err != nil {
			return nil, err
		}
		info.Levels = append(info.Levels, bp)
	}
	return info, nil
}

// session fetches a session and marks it as accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// catchUp feeds the time since the last call into the game and fires the
// timed transitions that became due
func (s *gameServiceImpl) catchUp(sess *Session) []GameEvent {
	now := s.now()
	if sess.LastTickAt.IsZero() || now.Before(sess.LastTickAt) {
		sess.LastTickAt = now
		return nil
	}
	elapsed := now.Sub(sess.LastTickAt)
	sess.LastTickAt = now

	game := sess.Game
	before := game.SinceTransition()
	game.Tick(elapsed)
	crossed := before <= s.delay && game.SinceTransition() > s.delay

	var events []GameEvent
	switch game.Status() {
	case engine.Won:
		if s.autoAdvance && game.ReadyToAdvance(s.delay) {
			if err := game.AdvanceLevel(); err != nil {
				log.WithError(err).WithField("session", sess.ID).Warn("auto-advance failed")
				break
			}
			events = append(events, s.newEvent(EventLevelAdvanced, game, fmt.Sprintf("Advanced to level %d", game.Level()+1), nil))
			log.WithFields(log.Fields{"session": sess.ID, "level": game.Level() + 1}).Info("level advanced")
		} else if crossed {
			events = append(events, s.newEvent(EventAdvanceReady, game, "Ready for the next level", nil))
		}
	case engine.Lost:
		if crossed {
			events = append(events, s.newEvent(EventRestartReady, game, engine.Messages.PressRestart, nil))
		}
	}
	return events
}

// apply runs one input through the game and describes what happened
func (s *gameServiceImpl) apply(game *engine.Game, dir engine.Direction, idx int) (StepInfo, []GameEvent) {
	from := game.Board().PlayerPos()
	outcome := game.Input(dir)
	to := game.Board().PlayerPos()

	step := StepInfo{
		Idx:     idx,
		Dir:     dir,
		From:    from,
		To:      to,
		Outcome: outcome,
		Status:  game.Status(),
	}

	var events []GameEvent
	switch outcome {
	case engine.Moved:
		events = append(events, s.newEvent(EventMove, game, fmt.Sprintf("Moved %s to %s", dir, to), &to))
	case engine.PushedBox:
		box := to.Add(dir.Delta())
		events = append(events, s.newEvent(EventPush, game, fmt.Sprintf("Pushed box %s to %s", dir, box), &box))
	case engine.Blocked:
		events = append(events, s.newEvent(EventBlocked, game, fmt.Sprintf("Cannot move %s from %s", dir, from), nil))
	case engine.Rejected:
		events = append(events, s.newEvent(EventRejected, game, fmt.Sprintf("Level is %s; input ignored", game.Status()), nil))
	}

	if outcome.Changed() && step.Status != engine.InProgress {
		events = append(events, s.newEvent(statusEventType(step.Status), game, game.Message(), nil))
	}
	return step, events
}

func (s *gameServiceImpl) pending(game *engine.Game) error {
	remaining := s.delay - game.SinceTransition()
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Errorf("%w: level %s, %s remaining", ErrTransitionPending, game.Status(), remaining.Round(time.Millisecond))
}

func (s *gameServiceImpl) newEvent(eventType string, game *engine.Game, message string, pos *engine.Position) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: s.now(),
		Level:     game.Level(),
		Position:  pos,
	}
}

func (s *gameServiceImpl) save(sessionID, op string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.WithError(err).WithField("session", sessionID).Warnf("failed to persist session after %s", op)
	}
}

// sessionInfo must be called with the lock held
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		CatalogID:      sess.CatalogID(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Game.State(),
	}
}

func statusEventType(status engine.Status) string {
	switch status {
	case engine.Won:
		return EventLevelWon
	case engine.Lost:
		return EventLevelLost
	case engine.AllLevelsWon:
		return EventAllLevelsWon
	}
	return ""
}
