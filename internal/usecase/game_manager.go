package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/pkg"
	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
)

// GameManager pairs players first come, first paired and keeps the registry of live sessions.
type GameManager struct {
	logger      *slog.Logger
	gameRepo    gameRepo
	waitTimeout time.Duration

	mu           sync.Mutex
	pending      *GameSession
	pendingTimer *time.Timer
	sessions     map[string]*GameSession
}

// NewGameManager - waitTimeout bounds how long a player may wait for an opponent; zero disables it.
func NewGameManager(logger *slog.Logger, gameRepo gameRepo, waitTimeout time.Duration) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		gameRepo:    gameRepo,
		waitTimeout: waitTimeout,
		sessions:    make(map[string]*GameSession),
	}
}

// Join seats peer in the waiting session, or opens a new one, and sends the greeting:
// WELCOME to the newcomer, then either the waiting notice or "Your move" to the first player.
func (that *GameManager) Join(ctx context.Context, peer Peer, remote string) (*GameSession, string, error) {
	log := that.logger.With("method", "Join", "remote", remote)

	that.mu.Lock()

	session, mark := that.pending, entity.PlayerO
	if session == nil {
		session, mark = NewGameSession(that.logger, that.gameRepo, pkg.GenerateGameID()), entity.PlayerX
	}

	opponent, err := session.Join(mark, remote, peer)
	if err != nil {
		that.mu.Unlock()
		return nil, "", fmt.Errorf("failed to join session %s: %w", session.ID(), err)
	}

	that.send(log, peer, protocol.Welcome(mark))

	if mark == entity.PlayerX {
		that.sessions[session.ID()] = session
		that.pending = session
		that.startWaitTimer(session)

		that.send(log, peer, protocol.Message(protocol.TextWaiting))
	} else {
		that.pending = nil
		that.stopWaitTimer()

		if opponent != nil {
			that.send(log, opponent, protocol.Message(protocol.TextYourMove))
		}
	}

	that.mu.Unlock()

	log.Info("player joined", "gameID", session.ID(), "mark", mark)

	session.persist(ctx)

	return session, mark, nil
}

// Leave removes the player under mark from session. It returns the opponent that still has
// to be told the other player left, or nil.
func (that *GameManager) Leave(ctx context.Context, session *GameSession, mark string) Peer {
	log := that.logger.With("method", "Leave", "gameID", session.ID(), "mark", mark)

	that.mu.Lock()

	if that.pending == session {
		that.pending = nil
		that.stopWaitTimer()
		log.Info("waiting player left, session discarded")
	}

	opponent, empty := session.Leave(mark)
	if empty {
		delete(that.sessions, session.ID())
	}

	that.mu.Unlock()

	if empty {
		session.delete(ctx)
		log.Info("session closed")
	} else {
		session.persist(ctx)
	}

	return opponent
}

// GetSession - looks up a live session by its id.
func (that *GameManager) GetSession(id string) (*GameSession, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	return session, ok
}

func (that *GameManager) ActiveSessions() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

// startWaitTimer - caller holds mu.
func (that *GameManager) startWaitTimer(session *GameSession) {
	if that.waitTimeout <= 0 {
		return
	}

	that.pendingTimer = time.AfterFunc(that.waitTimeout, func() {
		that.expire(session)
	})
}

// stopWaitTimer - caller holds mu.
func (that *GameManager) stopWaitTimer() {
	if that.pendingTimer != nil {
		that.pendingTimer.Stop()
		that.pendingTimer = nil
	}
}

// expire disconnects a player that waited too long. Its connection's own teardown
// then removes the session.
func (that *GameManager) expire(session *GameSession) {
	log := that.logger.With("method", "expire", "gameID", session.ID())

	that.mu.Lock()
	if that.pending != session {
		that.mu.Unlock()
		return
	}

	that.pending = nil
	that.pendingTimer = nil
	that.mu.Unlock()

	log.Info("no opponent joined in time", "timeout", that.waitTimeout)

	peer := session.peer(entity.PlayerX)
	if peer == nil {
		return
	}

	that.send(log, peer, protocol.Message(protocol.TextNoOpponent))

	if err := peer.Close(); err != nil {
		log.Error("failed to close waiting player", "error", err)
	}
}

func (that *GameManager) send(log *slog.Logger, peer Peer, line string) {
	if err := peer.Send(line); err != nil {
		log.Warn("failed to send message", "message", line, "error", err)
	}
}
