// Package outbox relays durably stored domain events to Kafka. Together
// with the outbox notifier it gives notifications at-least-once delivery:
// a row is only marked processed after the broker accepted it.
package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediastack/upload-service/internal/storage/postgres"
)

// Source supplies pending outbox rows.
type Source interface {
	GetPending(ctx context.Context, limit int) ([]postgres.OutboxRecord, error)
	MarkProcessed(ctx context.Context, id int64) error
}

// Sink receives relayed events, normally the Kafka producer.
type Sink interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type Publisher struct {
	source    Source
	sink      Sink
	interval  time.Duration
	batchSize int
	log       zerolog.Logger
}

type PublisherConfig struct {
	Source    Source
	Sink      Sink
	Interval  time.Duration
	BatchSize int
	Logger    zerolog.Logger
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("outbox source is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("event sink is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got: %v", cfg.Interval)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got: %d", cfg.BatchSize)
	}

	return &Publisher{
		source:    cfg.Source,
		sink:      cfg.Sink,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		log:       cfg.Logger.With().Str("component", "outbox_publisher").Logger(),
	}, nil
}

// Start polls for pending events until the context is cancelled. Failures
// of a single batch are logged and the loop keeps going; events that fail
// to publish stay pending and are retried on the next tick. Consumers must
// therefore be idempotent.
func (p *Publisher) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info().
		Dur("interval", p.interval).
		Int("batch_size", p.batchSize).
		Msg("outbox publisher started")

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Err(ctx.Err()).Msg("outbox publisher stopped")
			return ctx.Err()

		case <-ticker.C:
			if err := p.publishBatch(ctx); err != nil {
				p.log.Error().Err(err).Msg("failed to publish batch")
			}
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context) error {
	records, err := p.source.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	var published, failed int

	for _, record := range records {
		eventLog := p.log.With().
			Str("event_id", record.EventID).
			Str("event_type", record.EventType).
			Str("aggregate_id", record.AggregateID).
			Int64("outbox_id", record.ID).
			Logger()

		if err := p.sink.Publish(ctx, record.EventID, record.Payload); err != nil {
			eventLog.Error().Err(err).Msg("failed to publish event")
			failed++
			continue
		}
		published++

		if err := p.source.MarkProcessed(ctx, record.ID); err != nil {
			// Published but still pending: it will go out again, which
			// at-least-once delivery permits.
			eventLog.Warn().Err(err).Msg("failed to mark event as processed")
		}
	}

	p.log.Info().
		Int("total", len(records)).
		Int("published", published).
		Int("failed", failed).
		Msg("batch processed")

	return nil
}
