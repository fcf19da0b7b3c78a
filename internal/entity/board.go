package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

const (
	Columns = 7
	Rows    = 6
)

// Board is indexed as Board[column][row], row 0 being the bottom of the column.
type Board [Columns][Rows]string

// Drop places mark on top of the pieces already in column and returns the row it landed on.
func (that *Board) Drop(column int, mark string) (int, error) {
	if column < 0 || column >= Columns {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, column)
	}

	row := that.topCell(column)
	if row == -1 {
		return -1, apperror.ErrColumnFull
	}

	that[column][row] = mark

	return row, nil
}

// IsColumnFull reports whether column has no empty cell left.
func (that *Board) IsColumnFull(column int) bool {
	return that.topCell(column) == -1
}

func (that *Board) IsFull() bool {
	for column := range that {
		if !that.IsColumnFull(column) {
			return false
		}
	}

	return true
}

func (that *Board) Cell(column, row int) string {
	return that[column][row]
}

// topCell - the lowest empty row in column, or -1.
func (that *Board) topCell(column int) int {
	for row := 0; row < Rows; row++ {
		if that[column][row] == EmptyCell {
			return row
		}
	}

	return -1
}
