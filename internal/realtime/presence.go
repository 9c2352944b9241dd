package realtime

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const presenceWriteTimeout = 5 * time.Second

type PresenceStore interface {
	SetPresence(ctx context.Context, userId string, online bool, lastSeen time.Time) error
}

// PresenceTracker drains the registry's transition feed and synchronizes
// is_online/last_seen into the durable user record. Writes are fire and
// forget: a persistence failure is logged, never surfaced.
type PresenceTracker struct {
	logger      *zap.Logger
	store       PresenceStore
	transitions <-chan Transition
}

func NewPresenceTracker(
	logger *zap.Logger,
	store PresenceStore,
	transitions <-chan Transition,
) *PresenceTracker {
	return &PresenceTracker{
		logger,
		store,
		transitions,
	}
}

func (t *PresenceTracker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case transition := <-t.transitions:
			t.persist(transition)
		}
	}
}

func (t *PresenceTracker) persist(transition Transition) {
	ctx, cancel := context.WithTimeout(context.Background(), presenceWriteTimeout)
	defer cancel()

	err := t.store.SetPresence(ctx, transition.UserId, transition.Online, transition.At)
	if err != nil {
		t.logger.Warn("failed to persist presence transition",
			zap.String("userId", transition.UserId),
			zap.Bool("online", transition.Online),
			zap.Error(err))
	}
}
