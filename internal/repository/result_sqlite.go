package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

type sqlResult struct {
	db *sql.DB
}

func NewSQLiteResultRepository(db *sql.DB) ResultRepository {
	return &sqlResult{
		db: db,
	}
}

func (that *sqlResult) Save(ctx context.Context, result *entity.Result) error {
	query := `INSERT INTO results (session_id, player_x, player_o, winner, winner_id, moves, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.db.ExecContext(ctx, query,
		result.SessionID,
		result.PlayerX,
		result.PlayerO,
		result.Winner,
		result.WinnerID,
		result.Moves,
		result.FinishedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	return nil
}

func (that *sqlResult) ListBySessionID(ctx context.Context, sessionID string) ([]*entity.Result, error) {
	query := `SELECT session_id, player_x, player_o, winner, winner_id, moves, finished_at
		FROM results WHERE session_id = ? ORDER BY id`

	rows, err := that.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := make([]*entity.Result, 0)
	for rows.Next() {
		var (
			result     entity.Result
			finishedAt int64
		)

		err = rows.Scan(
			&result.SessionID,
			&result.PlayerX,
			&result.PlayerO,
			&result.Winner,
			&result.WinnerID,
			&result.Moves,
			&finishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		result.FinishedAt = time.Unix(0, finishedAt).UTC()
		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	return results, nil
}
