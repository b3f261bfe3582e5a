// Package notify defines the sink the lifecycle manager signals after a
// durable status transition. Delivery and retry are the sink's contract;
// the core emits each notification once.
package notify

import "context"

type Notifier interface {
	UploadFinalized(ctx context.Context, videoID int64) error
	PromotionRequested(ctx context.Context, videoID int64, storagePath string) error
}

// Nop discards all notifications. Useful for tests and local setups
// without a broker.
type Nop struct{}

func (Nop) UploadFinalized(context.Context, int64) error            { return nil }
func (Nop) PromotionRequested(context.Context, int64, string) error { return nil }
