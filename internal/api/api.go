// Package api provides the health and status HTTP boundary for CraveBreaker.
//
// Hosting platforms probe these endpoints to decide whether the process is
// alive, so the server starts and answers even when the bot loop cannot run
// (for example, a missing bot token). Liveness is about the process, not the
// bot.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spotcoach/cravebreaker/internal/models"
)

// BotStatus reports whether the bot polling loop is active.
type BotStatus interface {
	Running() bool
}

// RestartFunc asks the supervisor to restart the bot loop.
type RestartFunc func() error

// Opts holds server configuration.
type Opts struct {
	Addr          string
	BotConfigured bool
}

// Option configures server creation.
type Option func(*Opts)

// WithAddr sets the listen address. Defaults to ":8080".
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithBotConfigured records whether a bot token is present in the
// configuration. This is a static fact about the deployment, distinct from
// whether the bot loop is currently running: a configured token can still
// fail auth at startup.
func WithBotConfigured(configured bool) Option {
	return func(o *Opts) { o.BotConfigured = configured }
}

// Server serves the health endpoints.
type Server struct {
	addr          string
	startedAt     time.Time
	botConfigured bool
	bot           BotStatus
	restart       RestartFunc
}

// NewServer builds a health server. Bot status and restart hooks are attached
// later, once (and if) the bot loop exists.
func NewServer(opts ...Option) *Server {
	o := Opts{Addr: ":8080"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{addr: o.Addr, botConfigured: o.BotConfigured, startedAt: time.Now()}
}

// AttachBot registers the bot loop's status source.
func (s *Server) AttachBot(b BotStatus) {
	s.bot = b
}

// AttachRestart registers the restart hook invoked by POST /restart.
func (s *Server) AttachRestart(fn RestartFunc) {
	s.restart = fn
}

// Handler returns the routed handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.rootHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/restart", s.restartHandler)
	return mux
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api.Run health server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("api.Run shutdown failed", "error", err)
			return err
		}
		slog.Debug("api.Run shut down cleanly")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// rootHandler is the platform liveness probe. It answers 200 as long as the
// process is up, regardless of the bot loop.
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("CraveBreaker is alive", nil))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("healthy", map[string]interface{}{
		"bot_token_configured": s.botConfigured,
	}))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("api.statusHandler", "method", r.Method)
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"bot_token_configured": s.botConfigured,
		"bot_attached":         s.bot != nil,
		"bot_running":          s.bot != nil && s.bot.Running(),
		"uptime":               time.Since(s.startedAt).Round(time.Second).String(),
	}))
}

func (s *Server) restartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.restart == nil {
		slog.Warn("api.restartHandler no restart hook attached")
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("bot is not configured"))
		return
	}
	if err := s.restart(); err != nil {
		slog.Error("api.restartHandler restart failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("restart failed"))
		return
	}
	slog.Info("api.restartHandler bot loop restart requested")
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("restarting bot loop", nil))
}
