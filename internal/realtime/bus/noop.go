package bus

import (
	"context"

	"github.com/plately/plately-backend/internal/realtime"
)

// noopBus satisfies Bus when no Redis is configured (local development).
type noopBus struct{}

func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(ctx context.Context, msg realtime.Message) error { return nil }

func (noopBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error {
	return nil
}

func (noopBus) Close() error { return nil }
