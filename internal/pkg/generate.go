package pkg

import (
	"strings"

	"github.com/google/uuid"
)

// sessionIDLength hex characters of a random UUID, 48 random bits.
const sessionIDLength = 12

// GenerateGameID - generates a short identifier for a game session.
func GenerateGameID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")

	return strings.ToUpper(hex[:sessionIDLength])
}

// GenerateConnectionID - generates a new unique identity for a websocket connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
