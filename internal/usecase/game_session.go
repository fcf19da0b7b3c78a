package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connect4"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/repository"
)

const storeTimeout = 5 * time.Second

// Peer is the outbound side of a connected player. Send must not block.
type Peer interface {
	Send(line string) error
	Close() error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	DeleteByID(ctx context.Context, id string) error
}

// MoveOutcome describes an accepted move.
type MoveOutcome struct {
	Column int
	Row    int
	Winner string
	Tie    bool
}

func (that MoveOutcome) IsTerminal() bool {
	return that.Winner != "" || that.Tie
}

// GameSession is one paired game. Every mutation of the game goes through mu;
// players reach each other only through the peers table, keyed by mark.
type GameSession struct {
	logger   *slog.Logger
	gameRepo gameRepo

	mu        sync.Mutex
	game      *entity.Game
	peers     map[string]Peer
	connected map[string]bool
	version   int

	saveMu       sync.Mutex
	savedVersion int
	deleted      bool
}

func NewGameSession(logger *slog.Logger, gameRepo gameRepo, id string) *GameSession {
	return &GameSession{
		logger:       logger.With("component", "session", "gameID", id),
		gameRepo:     gameRepo,
		game:         entity.NewGame(id),
		peers:        make(map[string]Peer, 2),
		connected:    make(map[string]bool, 2),
		savedVersion: -1,
	}
}

func (that *GameSession) ID() string {
	return that.game.ID
}

// Join seats peer under mark. The first player to join gets the first turn; the second
// starts the game and receives the peer already seated.
func (that *GameSession) Join(mark, remote string, peer Peer) (Peer, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, taken := that.peers[mark]; taken || len(that.peers) == 2 {
		return nil, apperror.ErrSessionFull
	}

	that.peers[mark] = peer
	that.connected[mark] = true
	that.game.Players = append(that.game.Players, &entity.Player{Mark: mark, Remote: remote})
	that.version++

	if len(that.peers) == 1 {
		that.game.Turn = mark
		return nil, nil
	}

	that.game.Status = entity.StatusOngoing

	return that.peers[entity.OpponentMark(mark)], nil
}

// ApplyMove validates and applies one move atomically. Rejected moves leave the game untouched.
func (that *GameSession) ApplyMove(ctx context.Context, mark string, column int) (MoveOutcome, error) {
	that.mu.Lock()

	row, err := connect4.MakeMove(that.game, mark, column)
	if err != nil {
		that.mu.Unlock()
		return MoveOutcome{}, err
	}

	outcome := MoveOutcome{Column: column, Row: row}
	if that.game.IsTie() {
		outcome.Tie = true
	} else if that.game.IsFinished() {
		outcome.Winner = that.game.Winner
	}

	that.version++
	snapshot, version := that.game.Clone(), that.version
	that.mu.Unlock()

	that.save(ctx, snapshot, version)

	return outcome, nil
}

// Opponent returns the connected peer sitting opposite mark, or nil.
func (that *GameSession) Opponent(mark string) Peer {
	that.mu.Lock()
	defer that.mu.Unlock()

	opponent := entity.OpponentMark(mark)
	if !that.connected[opponent] {
		return nil
	}

	return that.peers[opponent]
}

// Leave marks the player under mark as gone. It returns the opponent to notify when the
// game had not reached a result yet, and whether nobody is left in the session.
func (that *GameSession) Leave(mark string) (Peer, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connected[mark] = false

	var notify Peer
	opponent := entity.OpponentMark(mark)
	if that.game.IsOngoing() {
		that.game.Status = entity.StatusAbandoned
		that.version++

		if that.connected[opponent] {
			notify = that.peers[opponent]
		}
	}

	return notify, !that.connected[entity.PlayerX] && !that.connected[entity.PlayerO]
}

// Snapshot returns a copy of the current game state.
func (that *GameSession) Snapshot() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Clone()
}

func (that *GameSession) peer(mark string) Peer {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.peers[mark]
}

func (that *GameSession) persist(ctx context.Context) {
	that.mu.Lock()
	snapshot, version := that.game.Clone(), that.version
	that.mu.Unlock()

	that.save(ctx, snapshot, version)
}

// save stores snapshot unless a newer one was stored already. Store failures never affect play.
func (that *GameSession) save(ctx context.Context, snapshot *entity.Game, version int) {
	that.saveMu.Lock()
	defer that.saveMu.Unlock()

	if that.deleted || version <= that.savedVersion {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	if err := that.gameRepo.CreateOrUpdate(ctx, snapshot); err != nil {
		that.logger.Error("failed to store game", "error", err)
		return
	}

	that.savedVersion = version
}

func (that *GameSession) delete(ctx context.Context) {
	that.saveMu.Lock()
	defer that.saveMu.Unlock()

	that.deleted = true

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	if err := that.gameRepo.DeleteByID(ctx, that.ID()); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		that.logger.Error("failed to delete game", "error", err)
	}
}
