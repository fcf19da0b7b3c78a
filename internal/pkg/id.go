package pkg

import "github.com/segmentio/ksuid"

// GenerateGameID - generates a unique, time-ordered identifier for a game session.
func GenerateGameID() string {
	return ksuid.New().String()
}
