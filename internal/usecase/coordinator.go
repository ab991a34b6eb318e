package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

type sessionRegistry interface {
	Create(identity string) (entity.Snapshot, error)
	Get(id string) (*entity.Session, error)
	Join(id, identity string) (entity.Snapshot, error)
	Leave(id, identity string) (entity.LeaveResult, error)
	Disconnect(identity string) (entity.LeaveResult, bool)
	SessionOf(identity string) (string, bool)
	ListOpen() []string
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	ListBySessionID(ctx context.Context, sessionID string) ([]*entity.Result, error)
}

type notifier interface {
	Notify(ctx context.Context, notification Notification)
}

// Coordinator routes player intents to the registry and the sessions it holds.
// It keeps no state of its own; notifications go out after every lock is released.
type Coordinator struct {
	logger     *slog.Logger
	registry   sessionRegistry
	resultRepo resultRepo
	notifier   notifier

	now func() time.Time
}

func NewCoordinator(logger *slog.Logger, registry sessionRegistry, resultRepo resultRepo, notifier notifier) *Coordinator {
	return &Coordinator{
		logger: logger.With("component", "coordinator"),

		registry:   registry,
		resultRepo: resultRepo,
		notifier:   notifier,

		now: time.Now,
	}
}

// SetNotifier - replaces the notifier. Call it before serving requests.
func (that *Coordinator) SetNotifier(notifier notifier) {
	that.notifier = notifier
}

func (that *Coordinator) CreateSession(ctx context.Context, identity string) (entity.Snapshot, error) {
	log := that.logger.With("method", "CreateSession", "playerID", identity)

	snapshot, err := that.registry.Create(identity)
	if err != nil {
		log.InfoContext(ctx, "create rejected", "error", err)
		return entity.Snapshot{}, err
	}

	that.notify(ctx, Notification{
		Event:      EventGameCreated,
		Recipients: []string{identity},
		Game:       snapshot,
	})

	log.InfoContext(ctx, "game created", "sessionID", snapshot.ID)

	return snapshot, nil
}

func (that *Coordinator) JoinSession(ctx context.Context, identity, id string) (entity.Snapshot, error) {
	log := that.logger.With("method", "JoinSession", "playerID", identity, "sessionID", id)

	snapshot, err := that.registry.Join(id, identity)
	if err != nil {
		log.InfoContext(ctx, "join rejected", "error", err)
		return entity.Snapshot{}, err
	}

	that.notify(ctx, Notification{
		Event:      EventGameJoined,
		Recipients: []string{identity},
		Game:       snapshot,
	})
	that.notify(ctx, Notification{
		Event:      EventGameStarted,
		Recipients: snapshot.Participants(),
		Game:       snapshot,
	})

	log.InfoContext(ctx, "player joined game")

	return snapshot, nil
}

func (that *Coordinator) LeaveSession(ctx context.Context, identity, id string) error {
	log := that.logger.With("method", "LeaveSession", "playerID", identity, "sessionID", id)

	result, err := that.registry.Leave(id, identity)
	if err != nil {
		log.InfoContext(ctx, "leave rejected", "error", err)
		return err
	}

	if result.Remaining != "" {
		that.notify(ctx, Notification{
			Event:       EventPlayerLeft,
			Recipients:  []string{result.Remaining},
			Game:        result.Snapshot,
			Participant: identity,
		})
	}

	log.InfoContext(ctx, "player left game")

	return nil
}

func (that *Coordinator) MakeMove(ctx context.Context, identity, id string, cell int) error {
	log := that.logger.With("method", "MakeMove", "playerID", identity, "sessionID", id)

	session, err := that.registry.Get(id)
	if err != nil {
		log.InfoContext(ctx, "move rejected", "error", err)
		return err
	}

	result, err := session.ApplyMove(identity, cell)
	if err != nil {
		log.InfoContext(ctx, "move rejected", "cell", cell, "error", err)
		return err
	}

	recipients := result.Snapshot.Participants()

	that.notify(ctx, Notification{
		Event:      EventBoardUpdated,
		Recipients: recipients,
		Game:       result.Snapshot,
	})

	if !result.Outcome.IsTerminal() {
		return nil
	}

	that.recordResult(ctx, result)

	that.notify(ctx, Notification{
		Event:      EventGameOver,
		Recipients: recipients,
		Game:       result.Snapshot,
		Outcome:    result.Outcome.String(),
	})

	log.InfoContext(ctx, "game over", "outcome", result.Outcome.String())

	return nil
}

func (that *Coordinator) RequestRematch(ctx context.Context, identity, id string) error {
	log := that.logger.With("method", "RequestRematch", "playerID", identity, "sessionID", id)

	session, err := that.registry.Get(id)
	if err != nil {
		log.InfoContext(ctx, "rematch rejected", "error", err)
		return err
	}

	result, err := session.RequestRematch(identity)
	if err != nil {
		log.InfoContext(ctx, "rematch rejected", "error", err)
		return err
	}

	recipients := result.Snapshot.Participants()

	that.notify(ctx, Notification{
		Event:      EventRematchVotes,
		Recipients: recipients,
		Game:       result.Snapshot,
		Votes:      result.Votes,
	})

	if !result.Started {
		return nil
	}

	that.notify(ctx, Notification{
		Event:      EventRematchStarted,
		Recipients: recipients,
		Game:       result.Snapshot,
	})
	that.notify(ctx, Notification{
		Event:      EventBoardUpdated,
		Recipients: recipients,
		Game:       result.Snapshot,
	})

	log.InfoContext(ctx, "rematch started")

	return nil
}

func (that *Coordinator) ListOpenSessions(_ context.Context) []string {
	return that.registry.ListOpen()
}

// Disconnect tears down the identity's session, if any, and tells the other side.
func (that *Coordinator) Disconnect(ctx context.Context, identity string) {
	log := that.logger.With("method", "Disconnect", "playerID", identity)

	result, ok := that.registry.Disconnect(identity)
	if !ok {
		return
	}

	if result.Remaining != "" {
		that.notify(ctx, Notification{
			Event:       EventPlayerDisconnected,
			Recipients:  []string{result.Remaining},
			Game:        result.Snapshot,
			Participant: identity,
		})
	}

	log.InfoContext(ctx, "player disconnected from game", "sessionID", result.Snapshot.ID)
}

// CurrentSession returns the session the identity is taking part in.
func (that *Coordinator) CurrentSession(_ context.Context, identity string) (entity.Snapshot, bool) {
	id, ok := that.registry.SessionOf(identity)
	if !ok {
		return entity.Snapshot{}, false
	}

	session, err := that.registry.Get(id)
	if err != nil {
		return entity.Snapshot{}, false
	}

	return session.Snapshot(), true
}

func (that *Coordinator) GetSession(_ context.Context, id string) (entity.Snapshot, error) {
	session, err := that.registry.Get(id)
	if err != nil {
		return entity.Snapshot{}, err
	}

	return session.Snapshot(), nil
}

func (that *Coordinator) ListResults(ctx context.Context, id string) ([]*entity.Result, error) {
	results, err := that.resultRepo.ListBySessionID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return results, nil
}

func (that *Coordinator) recordResult(ctx context.Context, move entity.MoveResult) {
	log := that.logger.With("method", "recordResult", "sessionID", move.Snapshot.ID)

	result := entity.NewResult(move.Snapshot, move.Outcome, that.now())
	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.ErrorContext(ctx, "failed to save result", "error", err)
	}
}

func (that *Coordinator) notify(ctx context.Context, notification Notification) {
	if that.notifier == nil || len(notification.Recipients) == 0 {
		return
	}

	that.notifier.Notify(ctx, notification)
}
