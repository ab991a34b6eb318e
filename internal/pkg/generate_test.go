package pkg

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGameID(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		// When: generating a game id
		id := GenerateGameID()

		// Then: it is 12 upper-case hex characters
		assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{12}$`), id)
	})

	t.Run("Unique", func(t *testing.T) {
		seen := make(map[string]struct{}, 10000)
		for range 10000 {
			id := GenerateGameID()
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	})
}

func TestGenerateConnectionID(t *testing.T) {
	id := GenerateConnectionID()

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, GenerateConnectionID())
}
