package main

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/sokoban-game/game/config"
	"github.com/wricardo/sokoban-game/game/service"
	"github.com/wricardo/sokoban-game/game/session"
)

// serviceOptions selects the catalog, session store and game timing
type serviceOptions struct {
	Catalog         string
	Store           string
	SessionsDir     string
	SQLitePath      string
	TransitionDelay time.Duration
	AutoAdvance     bool
}

// services bundles what buildServices wires together
type services struct {
	Game     service.GameService
	Sessions *session.Manager
	Catalogs *config.Manager

	// persistent is false for the memory store
	persistent bool
	closer     io.Closer
}

// Close releases the session store
func (s *services) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// buildServices wires catalogs, the session store and the game service, and
// restores persisted sessions.
func buildServices(opts serviceOptions) (*services, error) {
	catalogs, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog manager: %w", err)
	}
	if opts.Catalog != "" {
		if err := catalogs.SetDefault(opts.Catalog); err != nil {
			return nil, err
		}
	}

	s := &services{Catalogs: catalogs}

	switch opts.Store {
	case StoreMemory:
		s.Sessions = session.NewManager()
	case StoreFile, "":
		persistence, err := session.NewFilePersistence(opts.SessionsDir, catalogs)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		s.Sessions = session.NewManagerWithPersistence(persistence)
		s.persistent = true
	case StoreSQLite:
		persistence, err := session.NewSQLitePersistence(opts.SQLitePath, catalogs)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		s.Sessions = session.NewManagerWithPersistence(persistence)
		s.persistent = true
		s.closer = persistence
	default:
		return nil, fmt.Errorf("unknown session store %q (use %s, %s or %s)", opts.Store, StoreMemory, StoreFile, StoreSQLite)
	}

	if s.persistent {
		if err := s.Sessions.LoadPersistedSessions(); err != nil {
			log.WithError(err).Warn("failed to load persisted sessions")
		}
	}

	gameOpts := []service.Option{service.WithAutoAdvance(opts.AutoAdvance)}
	if opts.TransitionDelay > 0 {
		gameOpts = append(gameOpts, service.WithTransitionDelay(opts.TransitionDelay))
	}
	s.Game = service.NewGameService(s.Sessions, catalogs, gameOpts...)

	log.WithFields(log.Fields{
		"catalog":  catalogs.GetDefault().ID(),
		"store":    opts.Store,
		"sessions": s.Sessions.Count(),
	}).Info("services initialized")

	return s, nil
}

// startMaintenance runs the background session routines until ctx is done
func (s *services) startMaintenance(ctx context.Context, ttl time.Duration) {
	go sessionCleanupRoutine(ctx, s.Sessions, ttl)
	if s.persistent {
		go orphanSyncRoutine(ctx, s.Sessions)
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.WithField("removed", removed).Info("cleaned up expired sessions")
			}
		}
	}
}

// orphanSyncRoutine drops sessions from memory once their stored copy is gone
func orphanSyncRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := manager.PruneOrphans(); pruned > 0 {
				log.WithField("pruned", pruned).Info("store sync: pruned orphaned sessions from memory")
			}
		}
	}
}
