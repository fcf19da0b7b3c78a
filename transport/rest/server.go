package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameReader interface {
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type sessionCounter interface {
	ActiveSessions() int
}

// Server exposes health and read-only game state over HTTP.
type Server struct {
	logger   *slog.Logger
	games    gameReader
	sessions sessionCounter
}

func New(logger *slog.Logger, games gameReader, sessions sessionCounter) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		games:    games,
		sessions: sessions,
	}
}

func (that *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.ping)
	mux.HandleFunc("GET /games/{id}", that.getGame)
	mux.HandleFunc("GET /stats", that.getStats)

	return mux
}

// Start - starts HTTP server and shuts it down once ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	})
	defer stop()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
