package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mediastack/upload-service/internal/upload/models"
)

// Publisher is what the Kafka producer exposes.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaNotifier publishes domain events straight to a topic.
// Fire-and-forget: a lost broker loses the notification.
type KafkaNotifier struct {
	producer Publisher
}

func NewKafkaNotifier(producer Publisher) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

func (n *KafkaNotifier) UploadFinalized(ctx context.Context, videoID int64) error {
	return n.publish(ctx, models.NewUploadFinalized(videoID))
}

func (n *KafkaNotifier) PromotionRequested(ctx context.Context, videoID int64, storagePath string) error {
	return n.publish(ctx, models.NewPromotionRequested(videoID, storagePath))
}

func (n *KafkaNotifier) publish(ctx context.Context, event models.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}
	if err := n.producer.Publish(ctx, event.AggregateID(), payload); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	return nil
}
