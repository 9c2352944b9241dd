package realtime

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Transition is a presence edge: the user's first channel connected or its
// last channel went away.
type Transition struct {
	UserId string
	Online bool
	At     time.Time
}

// Registry owns the mapping from user identity to that user's open channels.
// A user key exists if and only if its channel set is non-empty.
type Registry struct {
	logger *zap.Logger

	mu       sync.RWMutex
	channels map[string]map[string]Channel

	transitions chan Transition
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger:      logger,
		channels:    make(map[string]map[string]Channel),
		transitions: make(chan Transition, 256),
	}
}

// Register files the channel under the user's set and returns its connection
// id. The first channel of a user emits an online transition.
func (r *Registry) Register(userId string, channel Channel) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[userId]
	if !ok {
		set = make(map[string]Channel)
		r.channels[userId] = set
	}
	set[channel.Id()] = channel

	if !ok {
		r.notify(Transition{UserId: userId, Online: true, At: time.Now().UTC()})
	}

	return channel.Id()
}

// Unregister removes the channel from the user's set, pruning the user entry
// when it empties. Unknown connection ids are a no-op, so double disconnects
// are safe. The last channel of a user emits an offline transition.
func (r *Registry) Unregister(connectionId string, userId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[userId]
	if !ok {
		return
	}

	if _, ok := set[connectionId]; !ok {
		return
	}

	delete(set, connectionId)

	if len(set) == 0 {
		delete(r.channels, userId)
		r.notify(Transition{UserId: userId, Online: false, At: time.Now().UTC()})
	}
}

// ChannelsFor returns a snapshot of the user's live channels. An empty slice
// means the user is offline.
func (r *Registry) ChannelsFor(userId string) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.channels[userId]
	if !ok {
		return nil
	}

	channels := make([]Channel, 0, len(set))
	for _, channel := range set {
		channels = append(channels, channel)
	}

	return channels
}

// Transitions exposes the presence edge feed consumed by the tracker.
func (r *Registry) Transitions() <-chan Transition {
	return r.transitions
}

// notify runs under r.mu so transitions enqueue in state-change order, and it
// must never block connection bookkeeping. If the consumer falls this far
// behind, the transition is dropped; last_seen converges on the next edge.
func (r *Registry) notify(transition Transition) {
	select {
	case r.transitions <- transition:
	default:
		r.logger.Warn("presence transition buffer full, dropping transition",
			zap.String("userId", transition.UserId),
			zap.Bool("online", transition.Online))
	}
}
