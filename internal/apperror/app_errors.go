package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrNoOpponentYet = errors.New("no opponent yet")
	ErrColumnFull    = errors.New("column is full")
	ErrInvalidColumn = errors.New("invalid column index")
	ErrSessionFull   = errors.New("session already has two players")
)
