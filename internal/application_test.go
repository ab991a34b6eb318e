package application

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/config"
	"github.com/rocketscienceinc/tictactoe-sessions/testing/suite"
	"github.com/stretchr/testify/require"
)

func testConfig(storageType string) *config.Config {
	return &config.Config{
		LogLevel:   "debug",
		HTTPPort:   "0",
		SocketPort: "0",
		Storage: config.Storage{
			Type: storageType,
		},
	}
}

func runBriefly(t *testing.T, conf *config.Config) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	return Run(ctx, suite.NewLogger(), conf)
}

func TestRun(t *testing.T) {
	t.Run("Memory storage", func(t *testing.T) {
		require.NoError(t, runBriefly(t, testConfig(config.StorageMemory)))
	})

	t.Run("SQLite storage", func(t *testing.T) {
		conf := testConfig(config.StorageSQLite)
		conf.Storage.SQLitePath = filepath.Join(t.TempDir(), "results.db")

		require.NoError(t, runBriefly(t, conf))
		require.FileExists(t, conf.Storage.SQLitePath)
	})

	t.Run("Redis storage", func(t *testing.T) {
		server := miniredis.RunT(t)

		conf := testConfig(config.StorageRedis)
		conf.Storage.Redis = config.Redis{Host: server.Host(), Port: server.Port()}

		require.NoError(t, runBriefly(t, conf))
	})

	t.Run("Redis unavailable", func(t *testing.T) {
		server := miniredis.RunT(t)
		conf := testConfig(config.StorageRedis)
		conf.Storage.Redis = config.Redis{Host: server.Host(), Port: server.Port()}
		server.Close()

		require.Error(t, runBriefly(t, conf))
	})
}
