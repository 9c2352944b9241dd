package realtime

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Dispatcher fans one event out to every live channel of every recipient.
// Delivery is at-most-once, best-effort: individual channel failures are
// logged and swallowed, never propagated to the caller.
type Dispatcher struct {
	logger   *zap.Logger
	registry *Registry
}

func NewDispatcher(logger *zap.Logger, registry *Registry) *Dispatcher {
	return &Dispatcher{
		logger,
		registry,
	}
}

func (d *Dispatcher) Dispatch(event Event, recipients []string) {
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to marshal outbound event", zap.Error(err))

		return
	}

	for _, userId := range recipients {
		// Snapshot taken under the registry lock; sends happen outside it.
		for _, channel := range d.registry.ChannelsFor(userId) {
			if err := channel.Send(payload); err != nil {
				d.logger.Warn("dropping event for channel",
					zap.String("userId", userId),
					zap.String("connectionId", channel.Id()),
					zap.Error(err))
			}
		}
	}
}
