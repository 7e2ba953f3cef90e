// Package mcp exposes the box-pushing game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API of a running game server, and the JSON reply is rendered as text that a
// language model can read.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board rows with column indices, counters and status
//   - move, bulk_move: player input; both take an "intent" explaining the plan
//   - advance_level, restart_level, reset_level: level lifecycle
//   - hint: next move of a shortest solution
//   - list_catalogs: available level catalogs
//   - game_instructions: rules, legend and strategy
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
