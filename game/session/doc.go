// Package session provides session management for the box-pushing game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//   - Optional persistence to JSON files or SQLite
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine.Game, so sessions never share a
// board.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive.
//
// Persistence:
//
// A SessionPersistence stores a session as an engine.Snapshot plus its
// catalog ID and timestamps. Walls and targets are not stored; they come back
// from the catalog when the session is loaded, and RestoreGame rejects a
// snapshot that no longer fits its level.
//
// Usage:
//
//	store, err := session.NewSQLitePersistence("data/sessions.db", catalogs)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store)
//
//	// Create a new session on the first level
//	sess, err := manager.Create("", catalog, 0)
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
package session
