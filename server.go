package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/sokoban-game/api"
	"github.com/wricardo/sokoban-game/game/service"
	"github.com/wricardo/sokoban-game/transport/mcp"
	"github.com/wricardo/sokoban-game/transport/websocket"
)

// tickInterval is how often timed level transitions are evaluated
const tickInterval = 250 * time.Millisecond

type serverOptions struct {
	Addr        string
	SessionTTL  time.Duration
	Ngrok       bool
	NgrokAuth   string
	NgrokDomain string
	Services    serviceOptions
}

// runServer starts the HTTP server with REST API, WebSocket hub and an /mcp
// endpoint, plus an ngrok tunnel when enabled. It returns once ctx is done
// and everything has shut down.
func runServer(ctx context.Context, opts serverOptions) error {
	svcs, err := buildServices(opts.Services)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if err := svcs.Close(); err != nil {
			log.WithError(err).Warn("failed to close session store")
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(api.NewInputHandler(svcs.Game))
	go hub.Run(ctx)

	svcs.startMaintenance(ctx, opts.SessionTTL)
	go tickLoop(ctx, svcs.Game, hub, tickInterval)

	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", opts.Addr))
	router := newRouter(api.NewServer(svcs.Game, hub), mcpClient)

	httpServer := &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.WithFields(log.Fields{
		"version": Version,
		"addr":    opts.Addr,
	}).Infof("starting %s", AppName)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("REST API: http://%s/api", opts.Addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", opts.Addr)
		log.Infof("MCP endpoint: http://%s/mcp", opts.Addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.Ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, opts.NgrokAuth, opts.NgrokDomain, router)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down...")
	case runErr = <-serveErr:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	wg.Wait()

	if err := svcs.Sessions.SaveAllSessions(); err != nil {
		log.WithError(err).Warn("failed to save sessions on shutdown")
	}
	log.Info("server stopped")
	return runErr
}

// newRouter mounts the API at the root and the MCP JSON-RPC endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)

	router.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	})

	return router
}

// tickLoop drives timed transitions and pushes the resulting states to
// WebSocket subscribers
func tickLoop(ctx context.Context, game service.GameService, hub *websocket.Hub, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updates, err := game.Tick(ctx)
			if err != nil && ctx.Err() == nil {
				log.WithError(err).Warn("tick failed")
			}
			for _, update := range updates {
				log.WithFields(log.Fields{
					"session": update.SessionID,
					"status":  update.GameState.Status,
					"level":   update.GameState.Level + 1,
				}).Debug("timed transition")
				hub.BroadcastUpdate(update)
			}
		}
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	log.Info("starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.WithField("domain", domain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Infof("ngrok tunnel established: %s", url)
	log.Infof("  REST API (ngrok): %s/api", url)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", url)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", url)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Error("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

// runStdioMCP serves the MCP tools over stdio. It reuses the API at apiURL
// when it answers, otherwise it starts an internal API on a random loopback
// port and targets that.
func runStdioMCP(ctx context.Context, apiURL string, opts serviceOptions) error {
	baseURL := apiURL

	log.WithField("url", apiURL).Info("checking for external API server")
	probe := &http.Client{Timeout: 2 * time.Second}
	resp, err := probe.Get(apiURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info("external API server found, using it for MCP")
	} else {
		if resp != nil {
			resp.Body.Close()
		}
		log.Info("no external API server found, starting internal HTTP server")

		svcs, err := buildServices(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svcs.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(api.NewInputHandler(svcs.Game))
		go hub.Run(ctx)
		go tickLoop(ctx, svcs.Game, hub, tickInterval)

		httpServer := &http.Server{Handler: api.NewServer(svcs.Game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.WithField("url", baseURL).Info("internal HTTP server started")
	}

	client := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")
	if err := client.ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
