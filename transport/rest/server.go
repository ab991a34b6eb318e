package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameService interface {
	ListOpenSessions(ctx context.Context) []string
	GetSession(ctx context.Context, id string) (entity.Snapshot, error)
	ListResults(ctx context.Context, id string) ([]*entity.Result, error)
}

type Server struct {
	logger      *slog.Logger
	gameService gameService
}

func New(logger *slog.Logger, gameService gameService) *Server {
	return &Server{
		logger:      logger.With("component", "rest"),
		gameService: gameService,
	}
}

func (that *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ping", that.ping).Methods(http.MethodGet)
	router.HandleFunc("/games", that.listGames).Methods(http.MethodGet)
	router.HandleFunc("/games/{id}", that.getGame).Methods(http.MethodGet)
	router.HandleFunc("/games/{id}/results", that.listResults).Methods(http.MethodGet)

	return router
}

// Start - starts the HTTP server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown http server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
