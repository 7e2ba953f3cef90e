// Package api provides HTTP REST API handlers for the box-pushing game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"catalog_id": "classic", "level": 1}, both optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - {"direction": "up|down|left|right"}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["up", "left"]}, at most 50 applied
//   - POST /api/sessions/{id}/advance - Next level after a win
//   - POST /api/sessions/{id}/restart - Start a lost level over
//   - POST /api/sessions/{id}/reset - Start the current level over from any status
//   - GET /api/sessions/{id}/hint - Next move of a shortest solution
//
// Catalogs:
//   - GET /api/catalogs - List level catalogs
//   - GET /api/catalogs/{id} - One catalog with its level blueprints
//
// Other:
//   - GET /ws?session={id} - WebSocket updates for a session
//   - GET /health - Liveness check
//
// Error Handling:
//
// Errors are returned as JSON with the HTTP status code repeated in the body:
//
//	{
//	  "error": "session zzzz: session not found",
//	  "code": 404
//	}
//
// Unknown sessions and catalogs give 404, malformed input 400, level state
// conflicts 409, and advance or restart before the transition delay 425.
package api
