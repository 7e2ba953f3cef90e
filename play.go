package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/wricardo/sokoban-game/game/config"
	"github.com/wricardo/sokoban-game/game/engine"
)

const playFrame = 100 * time.Millisecond

type keyKind int

const (
	keyOther keyKind = iota
	keyMove
	keyReset
	keyQuit
)

type key struct {
	kind keyKind
	dir  engine.Direction
}

// decodeKeys turns raw terminal input into keys. Arrow keys arrive as
// ESC [ A..D sequences.
func decodeKeys(buf []byte) []key {
	var keys []key
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == 0x1b && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				keys = append(keys, key{kind: keyMove, dir: engine.Up})
			case 'B':
				keys = append(keys, key{kind: keyMove, dir: engine.Down})
			case 'C':
				keys = append(keys, key{kind: keyMove, dir: engine.Right})
			case 'D':
				keys = append(keys, key{kind: keyMove, dir: engine.Left})
			default:
				keys = append(keys, key{kind: keyOther})
			}
			i += 2
			continue
		}

		switch b {
		case 'w', 'W':
			keys = append(keys, key{kind: keyMove, dir: engine.Up})
		case 's', 'S':
			keys = append(keys, key{kind: keyMove, dir: engine.Down})
		case 'a', 'A':
			keys = append(keys, key{kind: keyMove, dir: engine.Left})
		case 'd', 'D':
			keys = append(keys, key{kind: keyMove, dir: engine.Right})
		case 'r', 'R':
			keys = append(keys, key{kind: keyReset})
		case 'q', 'Q', 0x03:
			keys = append(keys, key{kind: keyQuit})
		default:
			keys = append(keys, key{kind: keyOther})
		}
	}
	return keys
}

// playSession drives one terminal game
type playSession struct {
	game  *engine.Game
	delay time.Duration
	quit  bool
}

func newPlaySession(catalog *engine.Catalog, level int, delay time.Duration) (*playSession, error) {
	game, err := engine.NewGame(catalog, level)
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = engine.DefaultTransitionDelay
	}
	return &playSession{game: game, delay: delay}, nil
}

// handleKey applies one key and reports whether the screen needs a redraw.
// Once a lost level has been shown long enough, any key restarts it and is
// not applied as a move.
func (p *playSession) handleKey(k key) bool {
	if k.kind == keyQuit {
		p.quit = true
		return true
	}

	if p.game.ReadyToRestart(p.delay) {
		if err := p.game.RestartLevel(); err != nil {
			log.WithError(err).Debug("restart failed")
			return false
		}
		return true
	}

	switch k.kind {
	case keyReset:
		return p.game.Reset() == nil
	case keyMove:
		return p.game.Input(k.dir).Changed()
	}
	return false
}

// tick advances the transition clock and reports whether the screen needs a redraw
func (p *playSession) tick(elapsed time.Duration) bool {
	wasReady := p.game.ReadyToRestart(p.delay)
	p.game.Tick(elapsed)

	if p.game.ReadyToAdvance(p.delay) {
		if err := p.game.AdvanceLevel(); err != nil {
			log.WithError(err).Debug("advance failed")
			return false
		}
		return true
	}
	return !wasReady && p.game.ReadyToRestart(p.delay)
}

// message is the status line under the board
func (p *playSession) message() string {
	switch p.game.Status() {
	case engine.Lost:
		if p.game.ReadyToRestart(p.delay) {
			return engine.Messages.Failed + engine.Messages.PressRestart
		}
		return engine.Messages.Failed
	case engine.Won:
		return fmt.Sprintf("You passed! The next stage starts in %s.", p.delay)
	case engine.AllLevelsWon:
		return engine.Messages.FinalVictory
	}
	return engine.Messages.Welcome
}

// render draws the screen. Lines end in \r\n since the terminal is raw.
func (p *playSession) render(w io.Writer) error {
	state := p.game.State()

	lines := []string{
		fmt.Sprintf("%s | Level %d/%d: %s", state.CatalogName, state.Level+1, state.LevelCount, state.LevelName),
		fmt.Sprintf("Boxes on target: %d/%d | Moves: %d | Pushes: %d", state.BoxesOnTarget, len(state.Targets), state.Moves, state.Pushes),
		"",
	}
	lines = append(lines, state.Rows...)
	lines = append(lines, "", p.message(), "", "arrows/WASD move | r reset | q quit")

	_, err := io.WriteString(w, "\x1b[H\x1b[2J"+strings.Join(lines, "\r\n")+"\r\n")
	return err
}

// parseLevelArg converts a 1-based level argument to a level index
func parseLevelArg(arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid level %q: expected a number starting at 1", arg)
	}
	return n - 1, nil
}

// runPlay plays a catalog in the terminal until the player quits or ctx is done
func runPlay(ctx context.Context, catalogID string, level int, delay time.Duration) error {
	catalogs, err := config.NewManager()
	if err != nil {
		return err
	}
	catalog, err := catalogs.LoadCatalog(catalogID)
	if err != nil {
		return err
	}
	session, err := newPlaySession(catalog, level, delay)
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("play needs an interactive terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	input := make(chan []byte)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(input)
				return
			}
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			input <- chunk
		}
	}()

	out := os.Stdout
	if err := session.render(out); err != nil {
		return err
	}

	ticker := time.NewTicker(playFrame)
	defer ticker.Stop()
	last := time.Now()

	for !session.quit {
		redraw := false
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-input:
			if !ok {
				return nil
			}
			for _, k := range decodeKeys(chunk) {
				if session.handleKey(k) {
					redraw = true
				}
			}
		case now := <-ticker.C:
			redraw = session.tick(now.Sub(last))
			last = now
		}
		if redraw {
			if err := session.render(out); err != nil {
				return err
			}
		}
	}
	return nil
}
