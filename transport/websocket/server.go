package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/pkg"
)

const shutdownTimeout = 5 * time.Second

type coordinator interface {
	CreateSession(ctx context.Context, identity string) (entity.Snapshot, error)
	JoinSession(ctx context.Context, identity, id string) (entity.Snapshot, error)
	LeaveSession(ctx context.Context, identity, id string) error
	MakeMove(ctx context.Context, identity, id string, cell int) error
	RequestRematch(ctx context.Context, identity, id string) error
	ListOpenSessions(ctx context.Context) []string
	Disconnect(ctx context.Context, identity string)
	CurrentSession(ctx context.Context, identity string) (entity.Snapshot, bool)
}

type handlerFunc func(ctx context.Context, client *client, message *Message) error

type Server struct {
	logger      *slog.Logger
	coordinator coordinator
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc

	clientsMutex sync.RWMutex
	clients      map[string]*client
}

func New(logger *slog.Logger, coordinator coordinator) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
		clients:  make(map[string]*client),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionJoinGame] = server.handleJoinGame
	server.handlers[actionLeaveGame] = server.handleLeaveGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionRematch] = server.handleRematch
	server.handlers[actionListGames] = server.handleListGames

	return server
}

// Start - starts WebSocket server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}

		that.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// upgradeToWebSocket - upgrades the connection and serves it until it drops.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(pkg.GenerateConnectionID(), conn)
	that.register(c)

	log.Info("WebSocket connection established", "playerID", c.id)

	go c.writePump(that.logger)

	that.handleMessages(req.Context(), c)
}

// handleMessages - processes messages from the client until the connection is closed.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages", "playerID", c.id)

	defer func() {
		that.unregister(c)
		c.close()
		that.coordinator.Disconnect(ctx, c.id)

		log.Info("player disconnected")
	}()

	c.prepareRead()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendErrorResponse(c, actionError, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendErrorResponse(c, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	that.clients[c.id] = c
}

func (that *Server) unregister(c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	if that.clients[c.id] == c {
		delete(that.clients, c.id)
	}
}

func (that *Server) lookup(identity string) (*client, bool) {
	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	c, ok := that.clients[identity]

	return c, ok
}

func (that *Server) closeAll() {
	that.clientsMutex.RLock()
	clients := make([]*client, 0, len(that.clients))
	for _, c := range that.clients {
		clients = append(clients, c)
	}
	that.clientsMutex.RUnlock()

	for _, c := range clients {
		c.close()
	}
}
