package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/repository"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-sessions/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readTimeout = 5 * time.Second

type testPlayer struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func newTestServer(t *testing.T) string {
	t.Helper()

	logger := suite.NewLogger()
	coordinator := usecase.NewCoordinator(
		logger,
		repository.NewSessionRegistry(),
		repository.NewMemoryResultRepository(),
		nil,
	)

	server := New(logger, coordinator)
	coordinator.SetNotifier(server)

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	return "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
}

func connect(t *testing.T, url string) *testPlayer {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	t.Cleanup(func() {
		_ = conn.Close()
	})

	player := &testPlayer{t: t, conn: conn}
	player.send(actionConnect, Payload{})

	payload := player.expect(actionConnect)
	require.NotNil(t, payload.Player)
	require.NotEmpty(t, payload.Player.ID)
	player.id = payload.Player.ID

	return player
}

func (that *testPlayer) send(action string, payload Payload) {
	that.t.Helper()

	message, err := encodeMessage(action, payload)
	require.NoError(that.t, err)
	require.NoError(that.t, that.conn.WriteMessage(websocket.TextMessage, message))
}

// expect reads until a message with the action arrives and returns its payload.
func (that *testPlayer) expect(action string) Payload {
	that.t.Helper()

	for {
		require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(readTimeout)))

		_, data, err := that.conn.ReadMessage()
		require.NoError(that.t, err, "waiting for %s", action)

		var message Message
		require.NoError(that.t, json.Unmarshal(data, &message))

		if message.Action != action {
			continue
		}

		var payload Payload
		require.NoError(that.t, json.Unmarshal(message.Payload, &payload))

		return payload
	}
}

func (that *testPlayer) move(gameID string, cell int) {
	that.send(actionGameTurn, Payload{Game: &entity.Snapshot{ID: gameID}, Cell: &cell})
}

func TestServer_FullGame(t *testing.T) {
	url := newTestServer(t)

	a1 := connect(t, url)
	a2 := connect(t, url)

	// Given: a1 creates a game
	a1.send(actionNewGame, Payload{})
	created := a1.expect(actionNewGame)
	require.NotNil(t, created.Game)
	assert.Equal(t, entity.PlayerX, created.Player.Mark)
	gameID := created.Game.ID

	// Given: the game is listed
	a2.send(actionListGames, Payload{})
	listed := a2.expect(actionListGames)
	assert.Equal(t, []string{gameID}, listed.Games)

	// When: a2 joins
	a2.send(actionJoinGame, Payload{Game: &entity.Snapshot{ID: gameID}})

	// Then: a2 plays O and both see the start
	joined := a2.expect(actionJoinGame)
	assert.Equal(t, entity.PlayerO, joined.Player.Mark)

	started := a1.expect(string(usecase.EventGameStarted))
	assert.Equal(t, entity.StatusOngoing, started.Game.Status)
	assert.Equal(t, entity.PlayerX, started.Game.Turn)
	a2.expect(string(usecase.EventGameStarted))

	// When: O tries to move first
	a2.move(gameID, 4)

	// Then: the error comes back on the same action
	rejected := a2.expect(actionGameTurn)
	assert.Contains(t, rejected.Error, "not your turn")

	// When: X takes the top row
	for i, cell := range []int{0, 3, 1, 4, 2} {
		mover, mark := a1, entity.PlayerX
		if i%2 == 1 {
			mover, mark = a2, entity.PlayerO
		}
		mover.move(gameID, cell)

		board := a1.expect(string(usecase.EventBoardUpdated))
		assert.Equal(t, mark, board.Game.Board[cell])
		assert.Equal(t, board.Game.Version, a2.expect(string(usecase.EventBoardUpdated)).Game.Version)
	}

	// Then: both are told X won
	over := a1.expect(string(usecase.EventGameOver))
	assert.Equal(t, entity.PlayerX, over.Outcome)
	assert.Equal(t, entity.StatusFinished, over.Game.Status)
	assert.Equal(t, 1, over.Game.Score.X)
	assert.Equal(t, entity.PlayerX, a2.expect(string(usecase.EventGameOver)).Outcome)

	// When: both ask for a rematch
	a1.send(actionRematch, Payload{Game: &entity.Snapshot{ID: gameID}})
	assert.Equal(t, 1, a2.expect(string(usecase.EventRematchVotes)).Votes)
	a2.send(actionRematch, Payload{Game: &entity.Snapshot{ID: gameID}})

	// Then: the marks swap
	rematch := a2.expect(string(usecase.EventRematchStarted))
	assert.Equal(t, entity.PlayerX, rematch.Player.Mark)
	assert.Equal(t, a2.id, rematch.Game.PlayerX)
	assert.Equal(t, entity.PlayerO, a1.expect(string(usecase.EventRematchStarted)).Player.Mark)

	// When: a2 drops its connection
	require.NoError(t, a2.conn.Close())

	// Then: a1 is told the opponent is gone
	gone := a1.expect(string(usecase.EventPlayerDisconnected))
	assert.Equal(t, a2.id, gone.Participant)
	assert.Equal(t, gameID, gone.Game.ID)

	// Then: a1 may open a new game
	a1.send(actionNewGame, Payload{})
	again := a1.expect(actionNewGame)
	assert.Empty(t, again.Error)
	assert.NotEqual(t, gameID, again.Game.ID)
}

func TestServer_Leave(t *testing.T) {
	url := newTestServer(t)

	a1 := connect(t, url)
	a2 := connect(t, url)

	a1.send(actionNewGame, Payload{})
	gameID := a1.expect(actionNewGame).Game.ID

	a2.send(actionJoinGame, Payload{Game: &entity.Snapshot{ID: gameID}})
	a2.expect(actionJoinGame)

	// When: a1 leaves
	a1.send(actionLeaveGame, Payload{Game: &entity.Snapshot{ID: gameID}})

	// Then: a1 gets an ack and a2 is told
	ack := a1.expect(actionLeaveGame)
	assert.Empty(t, ack.Error)
	assert.Equal(t, entity.StatusClosed, ack.Game.Status)

	left := a2.expect(string(usecase.EventPlayerLeft))
	assert.Equal(t, a1.id, left.Participant)

	// Then: the game no longer accepts moves
	a2.move(gameID, 0)
	assert.Contains(t, a2.expect(actionGameTurn).Error, "game not found")
}

func TestServer_Errors(t *testing.T) {
	url := newTestServer(t)
	a1 := connect(t, url)

	t.Run("Join unknown game", func(t *testing.T) {
		a1.send(actionJoinGame, Payload{Game: &entity.Snapshot{ID: "NOPE"}})

		assert.Contains(t, a1.expect(actionJoinGame).Error, "game not found")
	})

	t.Run("Join without id", func(t *testing.T) {
		a1.send(actionJoinGame, Payload{})

		assert.Equal(t, errMsgGameRequired, a1.expect(actionJoinGame).Error)
	})

	t.Run("Turn without cell", func(t *testing.T) {
		a1.send(actionGameTurn, Payload{Game: &entity.Snapshot{ID: "NOPE"}})

		assert.Equal(t, errMsgCellRequired, a1.expect(actionGameTurn).Error)
	})

	t.Run("Unknown action", func(t *testing.T) {
		a1.send("game:cheat", Payload{})

		assert.Equal(t, "unknown action", a1.expect("game:cheat").Error)
	})

	t.Run("Second game", func(t *testing.T) {
		a1.send(actionNewGame, Payload{})
		require.Empty(t, a1.expect(actionNewGame).Error)

		a1.send(actionNewGame, Payload{})

		assert.Equal(t, "you are already in a game", a1.expect(actionNewGame).Error)
	})
}
