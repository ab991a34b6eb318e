package websocket

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/usecase"
)

// Notify queues the notification on every recipient's connection. Recipients
// without a live connection are skipped.
func (that *Server) Notify(_ context.Context, notification usecase.Notification) {
	log := that.logger.With("method", "Notify", "event", notification.Event, "sessionID", notification.Game.ID)

	for _, recipient := range notification.Recipients {
		c, ok := that.lookup(recipient)
		if !ok {
			log.Warn("connection not found for player", "playerID", recipient)
			continue
		}

		game := notification.Game
		payload := Payload{
			Player:      entity.NewPlayer(recipient, game),
			Game:        &game,
			Votes:       notification.Votes,
			Outcome:     notification.Outcome,
			Participant: notification.Participant,
		}

		if err := that.sendMessage(c, string(notification.Event), payload); err != nil {
			log.Error("failed to send notification", "playerID", recipient, "error", err)
		}
	}
}
