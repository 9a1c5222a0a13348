package bus

import (
	"context"

	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/realtime"
)

// Bus carries realtime messages between backend instances.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}

// Emitter publishes through a Bus. Every instance's forwarder then broadcasts the
// message into its own hub.
type Emitter struct {
	Bus Bus
	Log *logger.Logger
}

func (e *Emitter) Emit(ctx context.Context, msg realtime.Message) {
	if e == nil || e.Bus == nil {
		return
	}
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("Realtime publish failed", "event", msg.Event, "error", err)
	}
}
