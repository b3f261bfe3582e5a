package notify

import (
	"context"
	"fmt"

	"github.com/mediastack/upload-service/internal/upload/models"
)

// OutboxStore persists events for a relay to pick up later.
type OutboxStore interface {
	Add(ctx context.Context, event models.DomainEvent) error
}

// OutboxNotifier writes each event to a durable outbox row instead of
// talking to the broker directly. The outbox publisher relays rows to
// Kafka, which upgrades delivery to at-least-once.
type OutboxNotifier struct {
	store OutboxStore
}

func NewOutboxNotifier(store OutboxStore) *OutboxNotifier {
	return &OutboxNotifier{store: store}
}

func (n *OutboxNotifier) UploadFinalized(ctx context.Context, videoID int64) error {
	if err := n.store.Add(ctx, models.NewUploadFinalized(videoID)); err != nil {
		return fmt.Errorf("outbox add: %w", err)
	}
	return nil
}

func (n *OutboxNotifier) PromotionRequested(ctx context.Context, videoID int64, storagePath string) error {
	if err := n.store.Add(ctx, models.NewPromotionRequested(videoID, storagePath)); err != nil {
		return fmt.Errorf("outbox add: %w", err)
	}
	return nil
}
