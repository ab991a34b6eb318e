package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

var errClientGone = errors.New("client connection is gone")

const (
	errMsgGameRequired = "game id is required"
	errMsgCellRequired = "cell is required"
)

func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	payload := Payload{
		Player: &entity.Player{ID: c.id},
	}

	if snapshot, ok := that.coordinator.CurrentSession(ctx, c.id); ok {
		payload.Player = entity.NewPlayer(c.id, snapshot)
		payload.Game = &snapshot
	}

	return that.sendMessage(c, msg.Action, payload)
}

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	if _, err := that.coordinator.CreateSession(ctx, c.id); err != nil {
		that.sendErrorResponse(c, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, c *client, msg *Message) error {
	gameID, ok := that.requireGameID(c, msg)
	if !ok {
		return nil
	}

	if _, err := that.coordinator.JoinSession(ctx, c.id, gameID); err != nil {
		that.sendErrorResponse(c, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleLeaveGame(ctx context.Context, c *client, msg *Message) error {
	gameID, ok := that.requireGameID(c, msg)
	if !ok {
		return nil
	}

	if err := that.coordinator.LeaveSession(ctx, c.id, gameID); err != nil {
		that.sendErrorResponse(c, msg.Action, err.Error())
		return nil
	}

	return that.sendMessage(c, msg.Action, Payload{
		Player: &entity.Player{ID: c.id},
		Game:   &entity.Snapshot{ID: gameID, Status: entity.StatusClosed},
	})
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendErrorResponse(c, msg.Action, "malformed payload")
		return err
	}

	if payload.Game == nil || payload.Game.ID == "" {
		that.sendErrorResponse(c, msg.Action, errMsgGameRequired)
		return nil
	}

	if payload.Cell == nil {
		that.sendErrorResponse(c, msg.Action, errMsgCellRequired)
		return nil
	}

	if err = that.coordinator.MakeMove(ctx, c.id, payload.Game.ID, *payload.Cell); err != nil {
		that.sendErrorResponse(c, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleRematch(ctx context.Context, c *client, msg *Message) error {
	gameID, ok := that.requireGameID(c, msg)
	if !ok {
		return nil
	}

	if err := that.coordinator.RequestRematch(ctx, c.id, gameID); err != nil {
		that.sendErrorResponse(c, msg.Action, err.Error())
	}

	return nil
}

func (that *Server) handleListGames(ctx context.Context, c *client, msg *Message) error {
	return that.sendMessage(c, msg.Action, Payload{
		Games: that.coordinator.ListOpenSessions(ctx),
	})
}

func (that *Server) requireGameID(c *client, msg *Message) (string, bool) {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendErrorResponse(c, msg.Action, "malformed payload")
		return "", false
	}

	if payload.Game == nil || payload.Game.ID == "" {
		that.sendErrorResponse(c, msg.Action, errMsgGameRequired)
		return "", false
	}

	return payload.Game.ID, true
}
