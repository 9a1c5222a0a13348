package realtime

import "context"

// Emitter delivers a message to whoever is listening on its channel.
type Emitter interface {
	Emit(ctx context.Context, msg Message)
}

// HubEmitter broadcasts straight into the local hub.
type HubEmitter struct{ Hub *Hub }

func (e *HubEmitter) Emit(_ context.Context, msg Message) {
	if e == nil || e.Hub == nil {
		return
	}
	e.Hub.Broadcast(msg)
}
