package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

const resultKeyPrefix = "result:"

// ResultRepository keeps the history of finished games. Results outlive the
// sessions they came from.
type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	ListBySessionID(ctx context.Context, sessionID string) ([]*entity.Result, error)
}

type dbResult struct {
	client *redis.Client
}

func NewRedisResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	resultKey := resultKeyPrefix + result.SessionID
	if err = that.client.RPush(ctx, resultKey, resultJSON).Err(); err != nil {
		return fmt.Errorf("failed to push result: %w", err)
	}

	return nil
}

func (that *dbResult) ListBySessionID(ctx context.Context, sessionID string) ([]*entity.Result, error) {
	resultKey := resultKeyPrefix + sessionID

	response, err := that.client.LRange(ctx, resultKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get results by session id: %w", err)
	}

	results := make([]*entity.Result, 0, len(response))
	for _, item := range response {
		var result entity.Result
		if err = json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}
