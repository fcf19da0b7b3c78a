// Package protocol encodes the line-oriented game protocol spoken over TCP and WebSocket.
//
// Client -> Server: MOVE <n>, QUIT
//
// Server -> Client: WELCOME <mark>, VALID_MOVE, OPPONENT_MOVED <n>, VICTORY, DEFEAT, TIE,
// MESSAGE <text>, OTHER_PLAYER_LEFT
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

const (
	CommandMove = "MOVE"
	CommandQuit = "QUIT"

	welcome         = "WELCOME"
	validMove       = "VALID_MOVE"
	opponentMoved   = "OPPONENT_MOVED"
	victory         = "VICTORY"
	defeat          = "DEFEAT"
	tie             = "TIE"
	message         = "MESSAGE"
	otherPlayerLeft = "OTHER_PLAYER_LEFT"
)

const (
	TextWaiting    = "Waiting for opponent to connect"
	TextYourMove   = "Your move"
	TextNoOpponent = "No opponent found"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a parsed client line. Column is only meaningful for MOVE.
type Command struct {
	Name   string
	Column int
}

// ParseCommand parses one client line. A MOVE whose column is missing or not a number
// is still returned as a MOVE, with an error wrapping apperror.ErrInvalidColumn.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrUnknownCommand
	}

	switch fields[0] {
	case CommandQuit:
		return Command{Name: CommandQuit}, nil
	case CommandMove:
		if len(fields) < 2 {
			return Command{Name: CommandMove}, fmt.Errorf("%w: missing column", apperror.ErrInvalidColumn)
		}

		column, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{Name: CommandMove}, fmt.Errorf("%w: %q", apperror.ErrInvalidColumn, fields[1])
		}

		return Command{Name: CommandMove, Column: column}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
}

func Welcome(mark string) string {
	return welcome + " " + mark
}

func ValidMove() string {
	return validMove
}

func OpponentMoved(column int) string {
	return opponentMoved + " " + strconv.Itoa(column)
}

func Victory() string {
	return victory
}

func Defeat() string {
	return defeat
}

func Tie() string {
	return tie
}

func Message(text string) string {
	return message + " " + text
}

func OtherPlayerLeft() string {
	return otherPlayerLeft
}

// RejectionText is the MESSAGE body sent to a client whose move was refused.
func RejectionText(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, apperror.ErrNoOpponentYet):
		return "You don't have an opponent yet"
	case errors.Is(err, apperror.ErrColumnFull):
		return "Column already occupied"
	case errors.Is(err, apperror.ErrGameFinished):
		return "Game is over"
	case errors.Is(err, apperror.ErrInvalidColumn):
		return "Invalid column"
	default:
		return "Move rejected"
	}
}
