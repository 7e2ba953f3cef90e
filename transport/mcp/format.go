package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
)

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCatalog: %s\nCreated: %s\n\n%s",
		session.ID, session.CatalogID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	name := state.LevelName
	if name == "" {
		name = "untitled"
	}
	fmt.Fprintf(&b, "Catalog: %s | Level %d/%d (%s)\n", state.CatalogID, state.Level+1, state.LevelCount, name)
	fmt.Fprintf(&b, "Player: %s | Boxes on target: %d/%d | Moves: %d | Pushes: %d\n\n",
		state.Player, state.BoxesOnTarget, len(state.Targets), state.Moves, state.Pushes)

	// Board with column indices so coordinates can be read off directly
	if state.Width > 0 {
		b.WriteString("   ")
		for x := 0; x < state.Width; x++ {
			b.WriteByte(byte('0' + x%10))
		}
		b.WriteString("\n")
	}
	for y, row := range state.Rows {
		fmt.Fprintf(&b, "%2d %s\n", y, row)
	}

	switch state.Status {
	case engine.AllLevelsWon:
		b.WriteString("\n🏆 ALL LEVELS WON")
	case engine.Won:
		b.WriteString("\n🎉 LEVEL WON")
	case engine.Lost:
		b.WriteString("\n💀 LEVEL LOST")
		if boxes := stuckCandidates(state); len(boxes) > 0 {
			fmt.Fprintf(&b, " (boxes off target: %s)", joinPositions(boxes))
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	switch result.Outcome {
	case engine.Moved:
		b.WriteString("✓ Moved\n")
	case engine.PushedBox:
		b.WriteString("✓ Pushed a box\n")
	case engine.Blocked:
		b.WriteString("✗ Move blocked\n")
	default:
		b.WriteString("✗ Move rejected\n")
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s %s→%s %s\n", s.Dir, s.From, s.To, s.Outcome)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", joinDirections(result.PossibleMoves))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	catalog := ""
	if result.GameState != nil {
		catalog = result.GameState.CatalogID
	}
	fmt.Fprintf(&b, "Session: %s • Catalog: %s\n", sessionID, catalog)

	fmt.Fprintf(&b, "Executed %d/%d moves, %d pushes, %s→%s\n",
		result.MovesExecuted, result.RequestedMoves, result.PushesMade, result.StartPos, result.EndPos)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d moves were applied\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d (%s): %s\n", result.StoppedOnMove, result.StopReasonCode, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "%2d. %-5s %s→%s %s\n", s.Idx, s.Dir, s.From, s.To, s.Outcome)
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", joinDirections(result.PossibleMoves))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHint(hint *service.HintResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Next move: %s\n", hint.Direction)
	fmt.Fprintf(&b, "Shortest solution: %d moves, %d pushes (%d states explored)\n",
		len(hint.Solution), hint.Pushes, hint.Explored)
	if len(hint.Solution) > 0 {
		fmt.Fprintf(&b, "Full sequence: %s\n", joinDirections(hint.Solution))
	}
	return b.String()
}

// stuckCandidates lists boxes that are not on a target
func stuckCandidates(state *engine.GameState) []engine.Position {
	targets := make(map[engine.Position]bool, len(state.Targets))
	for _, t := range state.Targets {
		targets[t] = true
	}
	var off []engine.Position
	for _, box := range state.Boxes {
		if !targets[box] {
			off = append(off, box)
		}
	}
	return off
}

func joinPositions(positions []engine.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

func joinDirections(dirs []engine.Direction) string {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}
