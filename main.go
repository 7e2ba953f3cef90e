// Command sokoban runs the box-pushing puzzle game.
//
// Commands:
//  1. "server" (default) – HTTP server exposing the REST API, WebSocket updates and an /mcp HTTP endpoint
//  2. "mcp" – MCP stdio server; reuses a running API or starts an internal one
//  3. "play" – plays a catalog in the terminal
//  4. "levels" – lists catalog levels and checks that each one can be solved
//
// Every flag can also be set through the environment or a .env file, and
// ngrok tunneling is available for easy external access during development.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/sokoban-game/game/engine"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Box Pushing Puzzle Server"
)

// Store backends for sessions
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// newCommand builds the command tree. Flags on the root are inherited by every subcommand.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "sokoban",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "Log as JSON",
				Sources: cli.EnvVars("LOG_JSON"),
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Default level catalog",
				Value:   "classic",
				Sources: cli.EnvVars("CATALOG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureLogging(cmd.Bool("debug"), cmd.Bool("log-json"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serverCommand(),
			mcpCommand(),
			playCommand(),
			levelsCommand(),
		},
		DefaultCommand: "server",
	}
}

// serviceFlags are shared by the commands that build a game service
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Session store: memory, file or sqlite",
			Value:   StoreFile,
			Sources: cli.EnvVars("SESSION_STORE"),
		},
		&cli.StringFlag{
			Name:    "sessions-dir",
			Usage:   "Directory for the file session store",
			Value:   "sessions",
			Sources: cli.EnvVars("SESSIONS_DIR"),
		},
		&cli.StringFlag{
			Name:    "sqlite-path",
			Usage:   "Database file for the sqlite session store",
			Value:   "sessions.db",
			Sources: cli.EnvVars("SQLITE_PATH"),
		},
		&cli.DurationFlag{
			Name:    "transition-delay",
			Usage:   "How long a won or lost level is shown before it advances or can restart",
			Value:   engine.DefaultTransitionDelay,
			Sources: cli.EnvVars("TRANSITION_DELAY"),
		},
		&cli.BoolFlag{
			Name:    "auto-advance",
			Usage:   "Advance won levels automatically once the transition delay passes",
			Value:   true,
			Sources: cli.EnvVars("AUTO_ADVANCE"),
		},
		&cli.DurationFlag{
			Name:    "session-ttl",
			Usage:   "Drop sessions from memory after this long without access",
			Value:   24 * time.Hour,
			Sources: cli.EnvVars("SESSION_TTL"),
		},
	}
}

// serviceOptionsFrom reads the shared service flags
func serviceOptionsFrom(cmd *cli.Command) serviceOptions {
	return serviceOptions{
		Catalog:         cmd.String("catalog"),
		Store:           cmd.String("store"),
		SessionsDir:     cmd.String("sessions-dir"),
		SQLitePath:      cmd.String("sqlite-path"),
		TransitionDelay: cmd.Duration("transition-delay"),
		AutoAdvance:     cmd.Bool("auto-advance"),
	}
}

func serverCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "HTTP listen address",
			Value:   "localhost:8080",
			Sources: cli.EnvVars("ADDR"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}, serviceFlags()...)

	return &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, serverOptions{
				Addr:        cmd.String("addr"),
				SessionTTL:  cmd.Duration("session-ttl"),
				Ngrok:       cmd.Bool("ngrok"),
				NgrokAuth:   cmd.String("ngrok-auth"),
				NgrokDomain: cmd.String("ngrok-domain"),
				Services:    serviceOptionsFrom(cmd),
			})
		},
	}
}

func mcpCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "REST API to proxy; an internal server is started when it is unreachable",
			Value:   "http://localhost:8080",
			Sources: cli.EnvVars("GAME_API_URL"),
		},
	}, serviceFlags()...)

	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run an MCP stdio server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runStdioMCP(ctx, cmd.String("api-url"), serviceOptionsFrom(cmd))
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a catalog in the terminal (arrows or WASD to move, r to reset, q to quit)",
		ArgsUsage: "[level]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "transition-delay",
				Usage: "How long a won or lost level is shown",
				Value: engine.DefaultTransitionDelay,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := parseLevelArg(cmd.Args().First())
			if err != nil {
				return err
			}
			return runPlay(ctx, cmd.String("catalog"), level, cmd.Duration("transition-delay"))
		},
	}
}

func levelsCommand() *cli.Command {
	return &cli.Command{
		Name:      "levels",
		Usage:     "List catalog levels and verify each one has a solution",
		ArgsUsage: "[catalog]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "solve",
				Usage: "Run the solver on every level",
				Value: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runLevels(ctx, os.Stdout, cmd.Args().First(), cmd.Bool("solve"))
		},
	}
}

// configureLogging applies the logging flags
func configureLogging(debug, jsonFormat bool) {
	if jsonFormat {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
		log.SetReportCaller(false)
	}
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}
	} else {
		log.Debug("loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
