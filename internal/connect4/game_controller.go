package connect4

import (
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

const winLength = 4

// directions scanned by HasFourInARow: across, up, down-right and down-left.
var directions = [][2]int{
	{1, 0},
	{0, 1},
	{1, -1},
	{-1, -1},
}

// MakeMove drops mark into column and moves the game to its next state.
// The game is left untouched when an error is returned.
func MakeMove(gameInstance *entity.Game, mark string, column int) (int, error) {
	if gameInstance.IsFinished() || gameInstance.IsAbandoned() {
		return -1, apperror.ErrGameFinished
	}

	if gameInstance.Turn != mark {
		return -1, apperror.ErrNotYourTurn
	}

	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return -1, err
	}

	row, err := gameInstance.Board.Drop(column, mark)
	if err != nil {
		return -1, fmt.Errorf("invalid move: %w", err)
	}

	gameInstance.Moves++
	updateGameStatus(gameInstance, mark)

	return row, nil
}

// HasFourInARow reports whether any four aligned cells share the same non-empty mark.
func HasFourInARow(board *entity.Board) bool {
	for column := 0; column < entity.Columns; column++ {
		for row := 0; row < entity.Rows; row++ {
			if board[column][row] == entity.EmptyCell {
				continue
			}

			for _, direction := range directions {
				if hasRun(board, column, row, direction[0], direction[1]) {
					return true
				}
			}
		}
	}

	return false
}

func hasRun(board *entity.Board, column, row, dc, dr int) bool {
	mark := board[column][row]

	for step := 1; step < winLength; step++ {
		c, r := column+step*dc, row+step*dr
		if c < 0 || c >= entity.Columns || r < 0 || r >= entity.Rows {
			return false
		}

		if board[c][r] != mark {
			return false
		}
	}

	return true
}

// updateGameStatus - checks the game status after a move. A win takes precedence over a full board.
func updateGameStatus(gameInstance *entity.Game, mover string) {
	switch {
	case HasFourInARow(&gameInstance.Board):
		gameInstance.Winner = mover
		gameInstance.Status = entity.StatusFinished
	case gameInstance.Board.IsFull():
		gameInstance.Winner = entity.PlayerTie
		gameInstance.Status = entity.StatusFinished
	default:
		gameInstance.Turn = entity.OpponentMark(mover)
	}
}
