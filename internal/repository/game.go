package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

const gameKeyPrefix = "game:"

var ErrGameNotFound = errors.New("game not found")

// GameRepository holds the live snapshot of every active session. A session deletes its
// snapshot when it ends; the TTL only catches snapshots whose delete never made it.
type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type snapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository - every write refreshes the snapshot's expiry to ttl; zero keeps snapshots until deleted.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &snapshotStore{
		client: client,
		ttl:    ttl,
	}
}

func (that *snapshotStore) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	snapshot, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game %s: %w", game.ID, err)
	}

	if err = that.client.Set(ctx, gameKeyPrefix+game.ID, snapshot, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store game %s: %w", game.ID, err)
	}

	return nil
}

func (that *snapshotStore) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	snapshot, err := that.client.Get(ctx, gameKeyPrefix+id).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrGameNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}

	game := &entity.Game{}
	if err = json.Unmarshal(snapshot, game); err != nil {
		return nil, fmt.Errorf("corrupt snapshot for game %s: %w", id, err)
	}

	return game, nil
}

func (that *snapshotStore) DeleteByID(ctx context.Context, id string) error {
	removed, err := that.client.Del(ctx, gameKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}

	if removed == 0 {
		return ErrGameNotFound
	}

	return nil
}
