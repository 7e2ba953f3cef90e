package api

import (
	"context"
	"fmt"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
	"github.com/wricardo/sokoban-game/transport/websocket"
)

// NewInputHandler routes actions received over a WebSocket to the game service
func NewInputHandler(gameService service.GameService) websocket.InputHandler {
	return func(ctx context.Context, sessionID string, msg websocket.ClientMessage) (*engine.GameState, []service.GameEvent, error) {
		switch msg.Action {
		case websocket.ActionMove:
			result, err := gameService.Move(ctx, sessionID, msg.Direction)
			if err != nil {
				return nil, nil, err
			}
			return result.GameState, result.Events, nil

		case websocket.ActionAdvance:
			state, err := gameService.AdvanceLevel(ctx, sessionID)
			return state, nil, err

		case websocket.ActionRestart:
			state, err := gameService.RestartLevel(ctx, sessionID)
			return state, nil, err

		case websocket.ActionReset:
			state, err := gameService.Reset(ctx, sessionID)
			return state, nil, err

		case websocket.ActionState:
			state, err := gameService.GetGameState(ctx, sessionID)
			return state, nil, err
		}
		return nil, nil, fmt.Errorf("unknown action %q", msg.Action)
	}
}
