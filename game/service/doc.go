// Package service provides the business logic layer for the box-pushing game.
//
// The service package implements:
//   - Multi-session game management
//   - Move and bulk move processing with per-step results
//   - Timed level transitions (auto-advance after a win, restart after a loss)
//   - Solver-backed hints
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager stores sessions; CatalogManager resolves level catalogs.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the engine. Each session owns its own engine.Game. Wall-clock time is
// folded into a game whenever its session is touched, and Tick does the same
// for every session so transitions fire even when nobody is calling.
//
// Usage:
//
//	catalogs, _ := config.NewManager()
//	gameService := service.NewGameService(session.NewManager(), catalogs)
//
//	info, err := gameService.CreateSession(ctx, "tutorial", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "right")
//
// Sessions are identified by 4-character IDs and hold independent games.
package service
