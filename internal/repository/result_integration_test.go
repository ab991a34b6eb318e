//go:build integration

package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/testing/suite"
	"github.com/stretchr/testify/require"
)

func TestRedisResultRepository_Container(t *testing.T) {
	ctx, st := suite.NewDocker(t)

	repo := NewRedisResultRepository(st.Storage)

	// Given: a finished game
	result := &entity.Result{
		SessionID:  "ABCDEF123456",
		PlayerX:    "a1",
		PlayerO:    "a2",
		Winner:     entity.PlayerO,
		WinnerID:   "a2",
		Moves:      6,
		FinishedAt: time.Now().UTC(),
	}

	// When: it is saved to a real Redis
	require.NoError(t, repo.Save(ctx, result))

	// Then: it can be read back
	results, err := repo.ListBySessionID(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assertResult(t, result, results[0])
}
