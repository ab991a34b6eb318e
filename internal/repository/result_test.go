package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultRepositories(t *testing.T) (context.Context, map[string]ResultRepository) {
	t.Helper()

	ctx, st := suite.New(t)

	return ctx, map[string]ResultRepository{
		"redis":  NewRedisResultRepository(st.Storage),
		"sqlite": NewSQLiteResultRepository(st.SQLite.Connection),
		"memory": NewMemoryResultRepository(),
	}
}

func TestResultRepository_Save(t *testing.T) {
	ctx, repos := resultRepositories(t)

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			// Given: a won game and a drawn rematch in the same session
			win := &entity.Result{
				SessionID:  "ABCDEF123456",
				PlayerX:    "a1",
				PlayerO:    "a2",
				Winner:     entity.PlayerX,
				WinnerID:   "a1",
				Moves:      5,
				FinishedAt: time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
			}
			draw := &entity.Result{
				SessionID:  "ABCDEF123456",
				PlayerX:    "a2",
				PlayerO:    "a1",
				Winner:     entity.PlayerTie,
				Moves:      9,
				FinishedAt: time.Date(2026, 1, 2, 3, 10, 0, 0, time.UTC),
			}

			// When: both are saved
			require.NoError(t, repo.Save(ctx, win))
			require.NoError(t, repo.Save(ctx, draw))

			// Then: they come back in order
			results, err := repo.ListBySessionID(ctx, "ABCDEF123456")
			require.NoError(t, err)
			require.Len(t, results, 2)

			assertResult(t, win, results[0])
			assertResult(t, draw, results[1])
		})
	}
}

func TestResultRepository_ListBySessionID_Empty(t *testing.T) {
	ctx, repos := resultRepositories(t)

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			// When: listing a session without history
			results, err := repo.ListBySessionID(ctx, "000000000000")

			// Then: the list is empty, not an error
			require.NoError(t, err)
			assert.Empty(t, results)
		})
	}
}

func TestResultRepository_FromSnapshot(t *testing.T) {
	ctx, repos := resultRepositories(t)

	// Given: a session where X wins on the diagonal
	session := entity.NewSession("FEDCBA654321", "a1")
	_, err := session.Join("a2")
	require.NoError(t, err)

	var move entity.MoveResult
	for i, cell := range []int{0, 1, 4, 2, 8} {
		identity := "a1"
		if i%2 == 1 {
			identity = "a2"
		}

		move, err = session.ApplyMove(identity, cell)
		require.NoError(t, err)
	}

	finishedAt := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	result := entity.NewResult(move.Snapshot, move.Outcome, finishedAt)

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, result))

			results, err := repo.ListBySessionID(ctx, "FEDCBA654321")
			require.NoError(t, err)
			require.Len(t, results, 1)

			// Then: the winner and the move count are kept
			assert.Equal(t, entity.PlayerX, results[0].Winner)
			assert.Equal(t, "a1", results[0].WinnerID)
			assert.Equal(t, 5, results[0].Moves)
		})
	}
}

func assertResult(t *testing.T, expected, actual *entity.Result) {
	t.Helper()

	assert.Equal(t, expected.SessionID, actual.SessionID)
	assert.Equal(t, expected.PlayerX, actual.PlayerX)
	assert.Equal(t, expected.PlayerO, actual.PlayerO)
	assert.Equal(t, expected.Winner, actual.Winner)
	assert.Equal(t, expected.WinnerID, actual.WinnerID)
	assert.Equal(t, expected.Moves, actual.Moves)
	assert.True(t, expected.FinishedAt.Equal(actual.FinishedAt), "finished at %s, got %s", expected.FinishedAt, actual.FinishedAt)
}
