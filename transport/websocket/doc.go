// Package websocket provides WebSocket transport for the box-pushing game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after every move and timed level transition
//   - Player input over the same connection
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns every connection. Its Run loop is the only goroutine
// that touches the session map; each client has a read pump and a write pump.
//
// Message Protocol:
//
//   - Incoming: {"action": "move", "direction": "up"}; actions are move,
//     advance, restart, reset and state
//   - Outgoing: {"sessionId": "abc1", "event": "state_update", "gameState": {...}, "events": [...]}
//   - Errors go only to the client that sent the action: {"event": "error", "data": "..."}
//
// Usage:
//
//	hub := websocket.NewHub(handler)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/api/sessions/{id}/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, mux.Vars(r)["id"])
//	})
package websocket
