package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Box Pushing Puzzle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Box Pushing Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Push every box (B) onto a target (O). The player (P) pushes one box at a time and can never pull.

AVAILABLE TOOLS:
- create_session: Create a new game session on a level catalog
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get the current board
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Multiple moves at once - requires intent explanation
- advance_level: Go to the next level after a win
- restart_level: Start a lost level over
- reset_level: Start the current level over at any time
- hint: Next move of a shortest solution
- list_catalogs: List level catalogs
- game_instructions: Rules and strategy

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Session ID",
			},
		},
		Required: []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally choosing a catalog and starting level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"catalog_id": map[string]interface{}{
					"type":        "string",
					"description": "Catalog to play (optional, see list_catalogs)",
				},
				"level": map[string]interface{}{
					"type":        "integer",
					"description": "1-based level to start on (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, box and target positions and level status",
		InputSchema: sessionOnlySchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell, pushing a box if one is in the way",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction", "intent"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Apply up to %d moves in order, stopping when a move is blocked or the level is won or lost", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Moves to apply in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the plan behind these moves",
				},
			},
			Required: []string{"session_id", "moves", "intent"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_level",
		Description: "Go to the next level after the current one has been won",
		InputSchema: sessionOnlySchema(),
	}, c.handleAdvance)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_level",
		Description: "Start a lost level over",
		InputSchema: sessionOnlySchema(),
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_level",
		Description: "Start the current level over from any status, useful when boxes are deadlocked",
		InputSchema: sessionOnlySchema(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Suggest the next move of a shortest solution from the current position",
		InputSchema: sessionOnlySchema(),
	}, c.handleHint)

	// Catalogs
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_catalogs",
		Description: "List the available level catalogs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListCatalogs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules, the board legend and strategy tips",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the MCP tools over stdin/stdout until the client disconnects
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func stringsArg(args map[string]interface{}, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		// Accept "up,left,left" as well as a JSON array
		return strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	}
	return nil
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID := stringArg(args, "session_id")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if catalogID := stringArg(args, "catalog_id"); catalogID != "" {
		body["catalog_id"] = catalogID
	}
	if level := intArg(args, "level"); level > 0 {
		body["level"] = level
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nCatalog: %s\n\n%s", session.ID, session.CatalogID, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level, status := "?", "?"
		if s.GameState != nil {
			level = fmt.Sprintf("%d/%d", s.GameState.Level+1, s.GameState.LevelCount)
			status = string(s.GameState.Status)
		}
		fmt.Fprintf(&sb, "- %s (Catalog: %s, Level: %s, Status: %s, Created: %s)\n",
			s.ID, s.CatalogID, level, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	// intent is only there to make the caller explain itself
	body := map[string]interface{}{
		"direction": stringArg(args, "direction"),
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	moves := stringsArg(args, "moves")
	if len(moves) == 0 {
		return mcp.NewToolResultError("moves must contain at least one direction"), nil
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/bulk-move", sessionID), map[string]interface{}{"moves": moves}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.transition(ctx, request, "advance")
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.transition(ctx, request, "restart")
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.transition(ctx, request, "reset")
}

// transition posts to one of the level lifecycle endpoints
func (c *Client) transition(ctx context.Context, request mcp.CallToolRequest, op string) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, op), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/hint", sessionID), nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleListCatalogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var catalogs []service.CatalogInfo
	if err := c.apiCall(ctx, "GET", "/api/catalogs", nil, &catalogs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Available Catalogs:\n\n")
	for _, catalog := range catalogs {
		marker := ""
		if catalog.Default {
			marker = " (default)"
		}
		fmt.Fprintf(&sb, "• %s%s: %s\n  %s\n  Levels: %d\n\n",
			catalog.ID, marker, catalog.Name, catalog.Description, catalog.LevelCount)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Box Pushing Puzzle - Complete Instructions

GAME OBJECTIVE:
Push boxes so that every target is covered. When the last target is covered the level is won
and, after 3 seconds, the next level starts. Winning the final level ends the game.

BOARD LEGEND:
• # - Wall (impassable)
• P - Player
• B - Box
• O - Target
• * - Box on a target
• + - Player standing on a target
• (space) - Floor

MOVEMENT RULES:
• Each move goes one cell up, down, left or right
• Walking into a wall does nothing
• Walking into a box pushes it one cell, but only if the cell behind it is floor or a target
• Two boxes in a row cannot be pushed, and boxes can never be pulled

LOSING A LEVEL:
• A box that is not on a target is stuck when a wall or box sits on at least one of its
  horizontal sides and on at least one of its vertical sides; a stuck box loses the level
• After a loss, wait 3 seconds, then any move restarts the level (or use restart_level)
• Some deadlocks (a box pushed into a corridor against a wall with no target) are not
  detected; use reset_level to start over at any time

STRATEGY:
• Work backwards from the targets: for each box, find the cell the player must stand on to push it
• Never push a box into a corner unless that corner is a target
• Avoid pushing a box flush against a wall unless a target lies along that wall
• Use hint when stuck; it returns the next move of a shortest solution

COORDINATES:
• x is the column and y is the row, both 0-based from the top-left
• up decreases y, down increases y

TOOLS:
• bulk_move stops at the first blocked move and whenever the level is won or lost
• advance_level works once a won level has been shown for 3 seconds; sessions usually
  advance on their own
• Each session has a unique 4-character ID and keeps its own progress

Good luck!`
