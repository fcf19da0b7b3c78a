package connect4

import (
	"testing"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drawBoard is a full board without four in a row: marks alternate by column
// and flip every second row.
func drawBoard() entity.Board {
	var board entity.Board
	for column := 0; column < entity.Columns; column++ {
		for row := 0; row < entity.Rows; row++ {
			if (column+row/2)%2 == 0 {
				board[column][row] = entity.PlayerX
			} else {
				board[column][row] = entity.PlayerO
			}
		}
	}
	return board
}

func ongoingGame() *entity.Game {
	game := entity.NewGame("123")
	game.Status = entity.StatusOngoing
	return game
}

func TestHasFourInARow(t *testing.T) {
	place := func(cells ...[2]int) *entity.Board {
		var board entity.Board
		for _, cell := range cells {
			board[cell[0]][cell[1]] = entity.PlayerX
		}
		return &board
	}

	t.Run("Horizontal", func(t *testing.T) {
		assert.True(t, HasFourInARow(place([2]int{3, 0}, [2]int{4, 0}, [2]int{5, 0}, [2]int{6, 0})))
	})

	t.Run("Vertical", func(t *testing.T) {
		assert.True(t, HasFourInARow(place([2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4}, [2]int{0, 5})))
	})

	t.Run("Rising diagonal", func(t *testing.T) {
		assert.True(t, HasFourInARow(place([2]int{1, 0}, [2]int{2, 1}, [2]int{3, 2}, [2]int{4, 3})))
	})

	t.Run("Falling diagonal", func(t *testing.T) {
		assert.True(t, HasFourInARow(place([2]int{6, 0}, [2]int{5, 1}, [2]int{4, 2}, [2]int{3, 3})))
	})

	t.Run("Three in a row and a gap", func(t *testing.T) {
		assert.False(t, HasFourInARow(place([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{4, 0})))
	})

	t.Run("Four cells of mixed ownership", func(t *testing.T) {
		board := place([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})
		board[2][0] = entity.PlayerO

		assert.False(t, HasFourInARow(board))
	})

	t.Run("Empty and drawn boards", func(t *testing.T) {
		board := drawBoard()

		assert.False(t, HasFourInARow(&entity.Board{}))
		assert.False(t, HasFourInARow(&board))
	})
}

func TestMakeMove(t *testing.T) {
	t.Run("Accepted move drops the piece and passes the turn", func(t *testing.T) {
		// Given: an ongoing game with X to move
		game := ongoingGame()

		// When: X plays column 3
		row, err := MakeMove(game, entity.PlayerX, 3)
		require.NoError(t, err)

		// Then: the piece is at the bottom and O is to move
		assert.Equal(t, 0, row)
		assert.Equal(t, entity.PlayerX, game.Board.Cell(3, 0))
		assert.Equal(t, entity.PlayerO, game.Turn)
		assert.Equal(t, 1, game.Moves)
		assert.Equal(t, entity.StatusOngoing, game.Status)
	})

	t.Run("Turn alternates after every accepted move", func(t *testing.T) {
		game := ongoingGame()
		columns := []int{0, 1, 2, 0, 1, 2, 4, 5}

		for i, column := range columns {
			mover := game.Turn
			_, err := MakeMove(game, mover, column)
			require.NoError(t, err, "move %d", i)

			// Then: the mark to move is the one that did not just move
			assert.Equal(t, entity.OpponentMark(mover), game.Turn)
		}
	})

	t.Run("Playing out of turn never touches the board", func(t *testing.T) {
		// Given: X to move
		game := ongoingGame()
		before := game.Clone()

		// When: O tries to move
		_, err := MakeMove(game, entity.PlayerO, 1)

		// Then: ErrNotYourTurn and the game is unchanged
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, before, game)
	})

	t.Run("No opponent yet", func(t *testing.T) {
		// Given: a game still waiting for its second player
		game := entity.NewGame("123")

		// When: X tries to move
		_, err := MakeMove(game, entity.PlayerX, 1)

		// Then: ErrNoOpponentYet
		require.ErrorIs(t, err, apperror.ErrNoOpponentYet)
		assert.Equal(t, entity.Board{}, game.Board)
	})

	t.Run("Column full", func(t *testing.T) {
		// Given: column 0 is full
		game := ongoingGame()
		for i := 0; i < entity.Rows; i++ {
			_, err := MakeMove(game, game.Turn, 0)
			require.NoError(t, err)
		}
		before := game.Clone()

		// When: the next player drops into it
		_, err := MakeMove(game, game.Turn, 0)

		// Then: ErrColumnFull, same turn, same board
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, before, game)
	})

	t.Run("Invalid column", func(t *testing.T) {
		game := ongoingGame()

		_, err := MakeMove(game, entity.PlayerX, entity.Columns)

		require.ErrorIs(t, err, apperror.ErrInvalidColumn)
		assert.Equal(t, entity.PlayerX, game.Turn)
	})

	t.Run("Vertical win finishes the game", func(t *testing.T) {
		// Given: X stacks column 0 while O plays column 1
		game := ongoingGame()
		for _, column := range []int{0, 1, 0, 1, 0, 1} {
			_, err := MakeMove(game, game.Turn, column)
			require.NoError(t, err)
		}

		// When: X completes four in column 0
		_, err := MakeMove(game, entity.PlayerX, 0)
		require.NoError(t, err)

		// Then: X wins and the turn stays with the winner
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)
		assert.Equal(t, entity.PlayerX, game.Turn)
	})

	t.Run("Moves after the end are rejected with ErrGameFinished", func(t *testing.T) {
		game := ongoingGame()
		game.Status = entity.StatusFinished
		game.Winner = entity.PlayerX
		game.Turn = entity.PlayerO

		_, err := MakeMove(game, entity.PlayerO, 3)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, entity.Board{}, game.Board)
	})

	t.Run("Filling the board without four in a row is a tie", func(t *testing.T) {
		// Given: a drawn board missing its top right cell
		game := ongoingGame()
		game.Board = drawBoard()
		game.Board[6][5] = entity.EmptyCell
		game.Turn = entity.PlayerX
		require.False(t, game.Board.IsFull())

		// When: X fills the last cell
		row, err := MakeMove(game, entity.PlayerX, 6)
		require.NoError(t, err)

		// Then: the game is tied
		assert.Equal(t, entity.Rows-1, row)
		assert.True(t, game.IsTie())
	})

	t.Run("Winning with the filling move is a win, not a tie", func(t *testing.T) {
		// Given: a board whose last empty cell completes a vertical four for X
		game := ongoingGame()
		game.Board = drawBoard()
		game.Board[6][1] = entity.PlayerO
		game.Board[6][2] = entity.PlayerX
		game.Board[6][3] = entity.PlayerX
		game.Board[6][4] = entity.PlayerX
		game.Board[6][5] = entity.EmptyCell
		game.Turn = entity.PlayerX
		require.False(t, HasFourInARow(&game.Board))

		// When: X plays the last cell
		_, err := MakeMove(game, entity.PlayerX, 6)
		require.NoError(t, err)

		// Then: the board is full but X wins
		assert.True(t, game.Board.IsFull())
		assert.Equal(t, entity.PlayerX, game.Winner)
		assert.False(t, game.IsTie())
	})
}
