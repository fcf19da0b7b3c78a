package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/player"
)

const acceptRetryDelay = 50 * time.Millisecond

type handler interface {
	Serve(ctx context.Context, transport player.Transport)
}

// Server accepts game clients on a plain TCP port.
type Server struct {
	logger      *slog.Logger
	handler     handler
	idleTimeout time.Duration
}

// New - idleTimeout disconnects clients that stay silent that long; zero disables it.
func New(logger *slog.Logger, handler handler, idleTimeout time.Duration) *Server {
	return &Server{
		logger:      logger.With("component", "tcp"),
		handler:     handler,
		idleTimeout: idleTimeout,
	}
}

// Start - starts TCP server.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	return that.Serve(ctx, listener)
}

// Serve accepts connections from listener until ctx is canceled, then waits for the
// connections already accepted to wind down.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve", "addr", listener.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	log.Info("accepting connections")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info("listener closed")
				return nil
			}

			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("listener closed unexpectedly: %w", err)
			}

			log.Error("failed to accept connection", "error", err)
			time.Sleep(acceptRetryDelay)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			that.handler.Serve(ctx, newLineConn(conn, that.idleTimeout))
		}()
	}
}
