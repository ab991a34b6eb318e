package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

type memResult struct {
	mu      sync.RWMutex
	results map[string][]entity.Result
}

func NewMemoryResultRepository() ResultRepository {
	return &memResult{
		results: make(map[string][]entity.Result),
	}
}

func (that *memResult) Save(_ context.Context, result *entity.Result) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.results[result.SessionID] = append(that.results[result.SessionID], *result)

	return nil
}

func (that *memResult) ListBySessionID(_ context.Context, sessionID string) ([]*entity.Result, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stored := that.results[sessionID]
	results := make([]*entity.Result, 0, len(stored))
	for i := range stored {
		result := stored[i]
		results = append(results, &result)
	}

	return results, nil
}
