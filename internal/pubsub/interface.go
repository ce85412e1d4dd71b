package pubsub

import "context"

// PubSubClient publishes ladder events and decodes pushed event payloads.
// SendMessage is called after a workflow transition has committed, so a
// publish failure is logged by the caller and never rolls anything back.
type PubSubClient interface {
	SendMessage(ctx context.Context, topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
