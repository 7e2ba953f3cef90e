package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session
type PersistedSessionData struct {
	ID             string          `json:"id"`
	CatalogID      string          `json:"catalog_id"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Snapshot       engine.Snapshot `json:"snapshot"`
}

func newPersistedSessionData(session *service.Session) (*PersistedSessionData, error) {
	if session == nil || session.Game == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	return &PersistedSessionData{
		ID:             session.ID,
		CatalogID:      session.CatalogID(),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Snapshot:       session.Game.Snapshot(),
	}, nil
}

// restore rebuilds the session against the catalog it was played on
func (d *PersistedSessionData) restore(catalogs service.CatalogManager) (*service.Session, error) {
	catalog, err := catalogs.LoadCatalog(d.CatalogID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog '%s': %w", d.CatalogID, err)
	}

	game, err := engine.RestoreGame(catalog, d.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	return &service.Session{
		ID:             d.ID,
		Game:           game,
		CreatedAt:      d.CreatedAt,
		LastAccessedAt: d.LastAccessedAt,
	}, nil
}

func storageKey(id string) string {
	return strings.ToLower(id)
}
