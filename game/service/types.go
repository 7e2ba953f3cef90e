package service

import (
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
)

// Event types reported in GameEvent.Type
const (
	EventMove           = "move"
	EventPush           = "push"
	EventBlocked        = "blocked"
	EventRejected       = "rejected"
	EventLevelWon       = "level_won"
	EventLevelLost      = "level_lost"
	EventAllLevelsWon   = "all_levels_won"
	EventAdvanceReady   = "advance_ready"
	EventRestartReady   = "restart_ready"
	EventLevelAdvanced  = "level_advanced"
	EventLevelRestarted = "level_restarted"
	EventReset          = "reset"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	CatalogID      string            `json:"catalog_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success       bool               `json:"success"`
	Outcome       engine.MoveOutcome `json:"outcome"`
	GameState     *engine.GameState  `json:"game_state"`
	Message       string             `json:"message"`
	Events        []GameEvent        `json:"events,omitempty"`
	Step          *StepInfo          `json:"step,omitempty"`
	PossibleMoves []engine.Direction `json:"possible_moves,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked|rejected|invalid_direction|level_won|level_lost|all_levels_won
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartPos   engine.Position `json:"start_pos"`
	EndPos     engine.Position `json:"end_pos"`
	PushesMade int             `json:"pushes_made"`

	Steps []StepInfo `json:"steps,omitempty"`

	Message       string             `json:"message,omitempty"`
	PossibleMoves []engine.Direction `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record of one applied input
type StepInfo struct {
	Idx     int                `json:"idx"`
	Dir     engine.Direction   `json:"dir"`
	From    engine.Position    `json:"from"`
	To      engine.Position    `json:"to"`
	Outcome engine.MoveOutcome `json:"outcome"`
	Status  engine.Status      `json:"status"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Level     int              `json:"level"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HintResult suggests the next move and the rest of a shortest solution
type HintResult struct {
	Direction engine.Direction   `json:"direction"`
	Solution  []engine.Direction `json:"solution"`
	Pushes    int                `json:"pushes"`
	Explored  int                `json:"explored"`
}

// SessionUpdate is produced by Tick for every session whose state changed
type SessionUpdate struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events"`
}

// CatalogInfo provides information about a level catalog
type CatalogInfo struct {
	ID          string             `json:"id"` // The identifier to use for session creation
	Name        string             `json:"name"`
	Description string             `json:"description"`
	LevelCount  int                `json:"level_count"`
	Default     bool               `json:"default"`
	Levels      []engine.Blueprint `json:"levels,omitempty"`
}
