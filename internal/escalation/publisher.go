package escalation

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/redisx"
)

// StreamPublisher fans escalations out to a Redis Stream for
// downstream consumers.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a publisher for the given stream.
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// Publish XADDs the record to the stream.
func (p *StreamPublisher) Publish(ctx context.Context, record models.EscalationRecord) error {
	_, err := redisx.PublishJSONToStream(ctx, p.client, p.stream, record)
	return err
}
