package service

import (
	"context"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, catalogID string, level int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)
	AdvanceLevel(ctx context.Context, sessionID string) (*engine.GameState, error)
	RestartLevel(ctx context.Context, sessionID string) (*engine.GameState, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	Hint(ctx context.Context, sessionID string) (*HintResult, error)
	Tick(ctx context.Context) ([]*SessionUpdate, error)

	// Catalogs
	ListCatalogs(ctx context.Context) ([]*CatalogInfo, error)
	GetCatalog(ctx context.Context, catalogID string) (*CatalogInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, catalog *engine.Catalog, level int) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// CatalogManager hands out level catalogs
type CatalogManager interface {
	LoadCatalog(id string) (*engine.Catalog, error)
	ListCatalogs() ([]*CatalogInfo, error)
	GetDefault() *engine.Catalog
}

// Session represents an active game session
type Session struct {
	ID             string
	Game           *engine.Game
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// LastTickAt is when elapsed time was last fed into Game.Tick.
	// Zero means the clock has not started for this session yet.
	LastTickAt time.Time
}

// CatalogID returns the ID of the catalog the session plays
func (s *Session) CatalogID() string {
	return s.Game.Catalog().ID()
}
