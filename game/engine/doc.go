// Package engine provides the core puzzle logic for the box-pushing game.
//
// The engine package implements the game mechanics including:
//   - Level catalogs built from text blueprints
//   - Board parsing and cell queries
//   - Player movement and box pushing
//   - Win and stuck-box detection
//   - Level progression and timed transitions
//
// Core Types:
//
// Catalog is an ordered, immutable list of Blueprints. Board is the parsed,
// mutable layout of one level. Game owns a catalog, the current board and the
// puzzle Status, and is the only type that applies player input.
//
// Usage:
//
//	game, err := engine.NewGame(catalog, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome := game.Input(engine.Right)
//	if game.Status() == engine.Won {
//		// after the win has been shown, move on
//		game.Tick(3 * time.Second)
//		game.AdvanceLevel()
//	}
//
// Blueprint Format:
//
// Each row of a blueprint is a string: '#' wall, 'P' player start, 'B' box,
// 'O' target; every other character is floor. Exactly one 'P' is required.
//
// Game Rules:
//
// A level is won when every target is covered by a box. It is lost when a box
// off target can no longer be pushed along either axis. Won levels advance to
// the next one; winning the last level ends the game. Lost levels are
// restarted explicitly. The engine never reads a clock: callers feed elapsed
// time through Game.Tick and decide when to advance or restart.
package engine
