package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

const (
	StatusFinished  = "finished"
	StatusOngoing   = "ongoing"
	StatusWaiting   = "waiting"
	StatusAbandoned = "abandoned"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is the state of one session: waiting for an opponent, ongoing, or finished with a Winner.
type Game struct {
	ID      string    `json:"id"`
	Board   Board     `json:"board"`
	Winner  string    `json:"winner"`
	Status  string    `json:"status"`
	Turn    string    `json:"player_turn"`
	Moves   int       `json:"moves"`
	Players []*Player `json:"players,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// IsAbandoned - a player left before the game reached a result.
func (that *Game) IsAbandoned() bool {
	return that.Status == StatusAbandoned
}

func (that *Game) IsTie() bool {
	return that.IsFinished() && that.Winner == PlayerTie
}

// ConfirmOngoingState - returns the reason moves are not accepted right now, or nil.
func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrNoOpponentYet
	case that.IsFinished(), that.IsAbandoned():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Clone returns a deep copy safe to hand out of the session lock.
func (that *Game) Clone() *Game {
	clone := *that

	if that.Players != nil {
		clone.Players = make([]*Player, 0, len(that.Players))
		for _, player := range that.Players {
			p := *player
			clone.Players = append(clone.Players, &p)
		}
	}

	return &clone
}

func OpponentMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
