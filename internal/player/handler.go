package player

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
	"github.com/rocketscienceinc/connect4-backend/internal/usecase"
)

type gameManager interface {
	Join(ctx context.Context, peer usecase.Peer, remote string) (*usecase.GameSession, string, error)
	Leave(ctx context.Context, session *usecase.GameSession, mark string) usecase.Peer
}

// Handler runs the game protocol for every accepted client, whatever transport it came in on.
type Handler struct {
	logger  *slog.Logger
	manager gameManager
	pool    *semaphore.Weighted
}

// NewHandler - at most maxConnections clients are served at once; the rest wait in arrival order.
func NewHandler(logger *slog.Logger, manager gameManager, maxConnections int64) *Handler {
	return &Handler{
		logger:  logger.With("component", "player"),
		manager: manager,
		pool:    semaphore.NewWeighted(maxConnections),
	}
}

// Serve drives one client until it quits, disconnects, or the game ends. It owns transport.
func (that *Handler) Serve(ctx context.Context, transport Transport) {
	log := that.logger.With("remote", transport.RemoteAddr())

	if err := that.pool.Acquire(ctx, 1); err != nil {
		log.Info("connection dropped before a slot was free", "error", err)
		_ = transport.Close()
		return
	}
	defer that.pool.Release(1)

	conn := NewConnection(log, transport)

	stop := context.AfterFunc(ctx, func() {
		_ = transport.Close()
	})
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			log.Error("connection handler panicked", "panic", r)
		}

		_ = conn.Close()
		<-conn.Done()
	}()

	session, mark, err := that.manager.Join(ctx, conn, transport.RemoteAddr())
	if err != nil {
		log.Error("failed to join a game", "error", err)
		return
	}

	log = log.With("gameID", session.ID(), "mark", mark)

	defer that.leave(ctx, log, session, mark)

	that.receive(ctx, log, transport, conn, session, mark)
}

// receive - reads commands until the client is done with the session.
func (that *Handler) receive(
	ctx context.Context,
	log *slog.Logger,
	transport Transport,
	conn *Connection,
	session *usecase.GameSession,
	mark string,
) {
	for {
		line, err := transport.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("client disconnected")
			} else {
				log.Error("error reading command", "error", err)
			}
			return
		}

		command, err := protocol.ParseCommand(line)
		if errors.Is(err, protocol.ErrUnknownCommand) {
			log.Debug("ignoring unknown command", "line", line)
			continue
		}

		if err != nil {
			send(log, conn, protocol.Message(protocol.RejectionText(err)))
			continue
		}

		switch command.Name {
		case protocol.CommandQuit:
			log.Info("client quit")
			return
		case protocol.CommandMove:
			if over := that.move(ctx, log, conn, session, mark, command.Column); over {
				return
			}
		}
	}
}

// move applies one MOVE and notifies both players. It reports whether the game is over.
func (that *Handler) move(
	ctx context.Context,
	log *slog.Logger,
	conn *Connection,
	session *usecase.GameSession,
	mark string,
	column int,
) bool {
	outcome, err := session.ApplyMove(ctx, mark, column)
	if err != nil {
		log.Debug("move rejected", "column", column, "error", err)
		send(log, conn, protocol.Message(protocol.RejectionText(err)))
		return false
	}

	opponent := session.Opponent(mark)

	send(log, conn, protocol.ValidMove())
	if opponent != nil {
		send(log, opponent, protocol.OpponentMoved(column))
	}

	if !outcome.IsTerminal() {
		return false
	}

	if outcome.Tie {
		send(log, conn, protocol.Tie())
	} else {
		send(log, conn, protocol.Victory())
	}

	if opponent != nil {
		if outcome.Tie {
			send(log, opponent, protocol.Tie())
		} else {
			send(log, opponent, protocol.Defeat())
		}

		_ = opponent.Close()
	}

	log.Info("game over", "winner", outcome.Winner, "tie", outcome.Tie)

	return true
}

func (that *Handler) leave(ctx context.Context, log *slog.Logger, session *usecase.GameSession, mark string) {
	opponent := that.manager.Leave(ctx, session, mark)
	if opponent == nil {
		return
	}

	send(log, opponent, protocol.OtherPlayerLeft())
	_ = opponent.Close()
}

func send(log *slog.Logger, peer usecase.Peer, line string) {
	if err := peer.Send(line); err != nil {
		log.Warn("failed to send message", "message", line, "error", err)
	}
}
