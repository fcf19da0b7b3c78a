package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
	mockedUseCase "github.com/rocketscienceinc/connect4-backend/mocks/usecase"
)

func TestGameManager_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("Pairs two players and greets them", func(t *testing.T) {
		// Given: a manager with no waiting player
		manager := NewGameManager(discardLogger(), permissiveRepo(t), 0)
		first, second := &recordingPeer{}, &recordingPeer{}

		// When: the first player joins
		firstSession, firstMark, err := manager.Join(ctx, first, "a")
		require.NoError(t, err)

		// Then: they are X and told to wait
		assert.Equal(t, entity.PlayerX, firstMark)
		assert.Equal(t, []string{"WELCOME X", "MESSAGE Waiting for opponent to connect"}, first.Lines())

		// When: the second player joins
		secondSession, secondMark, err := manager.Join(ctx, second, "b")
		require.NoError(t, err)

		// Then: they share the session as O and X is prompted to move
		assert.Same(t, firstSession, secondSession)
		assert.Equal(t, entity.PlayerO, secondMark)
		assert.Equal(t, []string{"WELCOME O"}, second.Lines())
		assert.Equal(t, "MESSAGE Your move", first.Lines()[2])
		assert.Equal(t, 1, manager.ActiveSessions())

		found, ok := manager.GetSession(firstSession.ID())
		require.True(t, ok)
		assert.Same(t, firstSession, found)
	})

	t.Run("Third player opens a new session", func(t *testing.T) {
		manager := NewGameManager(discardLogger(), permissiveRepo(t), 0)

		paired, _, err := manager.Join(ctx, &recordingPeer{}, "a")
		require.NoError(t, err)
		_, _, err = manager.Join(ctx, &recordingPeer{}, "b")
		require.NoError(t, err)

		third, mark, err := manager.Join(ctx, &recordingPeer{}, "c")
		require.NoError(t, err)

		assert.NotEqual(t, paired.ID(), third.ID())
		assert.Equal(t, entity.PlayerX, mark)
		assert.Equal(t, 2, manager.ActiveSessions())
	})

	t.Run("Join stores the session", func(t *testing.T) {
		// Given: a repo that expects the waiting game
		repo := mockedUseCase.NewMockgameRepo(t)
		repo.EXPECT().
			CreateOrUpdate(mock.Anything, mock.MatchedBy(func(game *entity.Game) bool {
				return game.IsWaiting() && len(game.Players) == 1
			})).
			Return(nil).
			Once()

		manager := NewGameManager(discardLogger(), repo, 0)

		// When: a player joins
		_, _, err := manager.Join(ctx, &recordingPeer{}, "a")

		// Then: the waiting game has been stored
		require.NoError(t, err)
	})
}

func TestGameManager_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("Waiting player leaving discards the session", func(t *testing.T) {
		// Given: one waiting player
		repo := mockedUseCase.NewMockgameRepo(t)
		repo.EXPECT().CreateOrUpdate(mock.Anything, mock.Anything).Return(nil)

		manager := NewGameManager(discardLogger(), repo, 0)
		session, mark, err := manager.Join(ctx, &recordingPeer{}, "a")
		require.NoError(t, err)

		repo.EXPECT().DeleteByID(mock.Anything, session.ID()).Return(nil).Once()

		// When: they leave
		opponent := manager.Leave(ctx, session, mark)

		// Then: the session is gone and the next player starts afresh
		assert.Nil(t, opponent)
		assert.Equal(t, 0, manager.ActiveSessions())

		next, nextMark, err := manager.Join(ctx, &recordingPeer{}, "b")
		require.NoError(t, err)
		assert.NotEqual(t, session.ID(), next.ID())
		assert.Equal(t, entity.PlayerX, nextMark)
	})

	t.Run("Leaving mid-game returns the opponent to notify", func(t *testing.T) {
		manager := NewGameManager(discardLogger(), permissiveRepo(t), 0)
		first := &recordingPeer{}

		session, _, err := manager.Join(ctx, first, "a")
		require.NoError(t, err)
		_, secondMark, err := manager.Join(ctx, &recordingPeer{}, "b")
		require.NoError(t, err)

		opponent := manager.Leave(ctx, session, secondMark)

		assert.Same(t, first, opponent)
		assert.Equal(t, 1, manager.ActiveSessions())

		assert.Nil(t, manager.Leave(ctx, session, entity.PlayerX))
		assert.Equal(t, 0, manager.ActiveSessions())
	})
}

func TestGameManager_WaitTimeout(t *testing.T) {
	ctx := context.Background()

	// Given: a manager that lets players wait only briefly
	manager := NewGameManager(discardLogger(), permissiveRepo(t), 20*time.Millisecond)
	waiting := &recordingPeer{}

	session, mark, err := manager.Join(ctx, waiting, "a")
	require.NoError(t, err)

	// When: no opponent shows up
	require.Eventually(t, waiting.IsClosed, time.Second, 5*time.Millisecond)

	// Then: the player is told and disconnected, and newcomers do not land in the stale session
	assert.Contains(t, waiting.Lines(), protocol.Message(protocol.TextNoOpponent))

	next, nextMark, err := manager.Join(ctx, &recordingPeer{}, "b")
	require.NoError(t, err)
	assert.NotEqual(t, session.ID(), next.ID())
	assert.Equal(t, entity.PlayerX, nextMark)

	manager.Leave(ctx, session, mark)
	assert.Equal(t, 1, manager.ActiveSessions())
}
