package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

const (
	actionConnect   = "connect"
	actionNewGame   = "game:new"
	actionJoinGame  = "game:join"
	actionLeaveGame = "game:leave"
	actionGameTurn  = "game:turn"
	actionRematch   = "game:rematch"
	actionListGames = "game:list"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses; each action uses a subset.
type Payload struct {
	Player *entity.Player   `json:"player,omitempty"`
	Game   *entity.Snapshot `json:"game,omitempty"`
	Games  []string         `json:"games,omitempty"`
	Cell   *int             `json:"cell,omitempty"`

	Votes       int    `json:"votes,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	Participant string `json:"participant,omitempty"`

	Error string `json:"error,omitempty"`
}

func encodeMessage(action string, payload Payload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return response, nil
}

func decodePayload(message *Message) (Payload, error) {
	var payload Payload
	if len(message.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

func (that *Server) sendMessage(c *client, action string, payload Payload) error {
	response, err := encodeMessage(action, payload)
	if err != nil {
		return err
	}

	if !c.enqueue(response) {
		that.logger.Warn("send queue unavailable, dropping connection", "playerID", c.id, "action", action)
		c.close()

		return fmt.Errorf("%w: %s", errClientGone, c.id)
	}

	return nil
}

func (that *Server) sendErrorResponse(c *client, action, errorMsg string) {
	if err := that.sendMessage(c, action, Payload{Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}
