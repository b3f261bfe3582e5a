package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	MaxRetries   int
	RetryBackoff time.Duration
	WriteTimeout time.Duration
	BatchSize    int
	Async        bool
	Logger       zerolog.Logger
}

type Message struct {
	Key   string
	Value []byte
}

type producerMetrics struct {
	MessagesPublished atomic.Int64
	MessagesFailed    atomic.Int64
	RetriesTotal      atomic.Int64
	PublishDuration   atomic.Int64 // cumulative nanoseconds
}

// ProducerMetrics is a point-in-time snapshot.
type ProducerMetrics struct {
	MessagesPublished int64
	MessagesFailed    int64
	RetriesTotal      int64
	AvgPublishTime    time.Duration
}

type Producer struct {
	writer  *kafkago.Writer
	config  ProducerConfig
	metrics producerMetrics
	closed  atomic.Bool
	log     zerolog.Logger
}

func validateConfig(cfg *ProducerConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("brokers list is empty")
	}
	if cfg.Topic == "" {
		return fmt.Errorf("topic is empty")
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if cfg.RetryBackoff < 0 {
		return fmt.Errorf("retry_backoff cannot be negative")
	}
	if cfg.WriteTimeout < 0 {
		return fmt.Errorf("write_timeout cannot be negative")
	}
	return nil
}

func setDefaults(cfg *ProducerConfig) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid producer config: %w", err)
	}
	setDefaults(&cfg)

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		WriteTimeout: cfg.WriteTimeout,
		Async:        cfg.Async,
	}

	return &Producer{
		writer: writer,
		config: cfg,
		log:    cfg.Logger.With().Str("component", "kafka_producer").Str("topic", cfg.Topic).Logger(),
	}, nil
}

// isRetriableError classifies transport-level failures worth retrying.
// Context cancellation and protocol rejections are final; unknown errors
// default to retriable.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	nonRetriable := []string{
		"invalid message",
		"message too large",
		"authorization failed",
	}
	for _, s := range nonRetriable {
		if strings.Contains(msg, s) {
			return false
		}
	}
	return true
}

// Publish writes one message, retrying retriable failures up to MaxRetries
// with a fixed backoff.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	if p.closed.Load() {
		return fmt.Errorf("producer is closed")
	}

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
	}

	start := time.Now()
	var err error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			p.metrics.RetriesTotal.Add(1)
			select {
			case <-ctx.Done():
				p.metrics.MessagesFailed.Add(1)
				return ctx.Err()
			case <-time.After(p.config.RetryBackoff):
			}
		}

		err = p.writer.WriteMessages(ctx, msg)
		if err == nil {
			p.metrics.MessagesPublished.Add(1)
			p.metrics.PublishDuration.Add(int64(time.Since(start)))
			return nil
		}
		if !isRetriableError(err) {
			break
		}
		p.log.Warn().Err(err).Int("attempt", attempt+1).Str("key", key).Msg("publish attempt failed")
	}

	p.metrics.MessagesFailed.Add(1)
	return fmt.Errorf("kafka publish: %w", err)
}

// PublishBatch writes all messages in one call, no per-message retry.
func (p *Producer) PublishBatch(ctx context.Context, messages []Message) error {
	if p.closed.Load() {
		return fmt.Errorf("producer is closed")
	}
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafkago.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, kafkago.Message{
			Key:   []byte(m.Key),
			Value: m.Value,
		})
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		p.metrics.MessagesFailed.Add(int64(len(messages)))
		return fmt.Errorf("kafka publish batch: %w", err)
	}
	p.metrics.MessagesPublished.Add(int64(len(messages)))
	p.metrics.PublishDuration.Add(int64(time.Since(start)))
	return nil
}

// HealthCheck dials the first broker to verify connectivity.
func (p *Producer) HealthCheck(ctx context.Context) error {
	if p.closed.Load() {
		return fmt.Errorf("producer is closed")
	}

	conn, err := kafkago.DialContext(ctx, "tcp", p.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("kafka health check: %w", err)
	}
	return conn.Close()
}

func (p *Producer) GetMetrics() ProducerMetrics {
	published := p.metrics.MessagesPublished.Load()

	var avg time.Duration
	if published > 0 {
		avg = time.Duration(p.metrics.PublishDuration.Load() / published)
	}

	return ProducerMetrics{
		MessagesPublished: published,
		MessagesFailed:    p.metrics.MessagesFailed.Load(),
		RetriesTotal:      p.metrics.RetriesTotal.Load(),
		AvgPublishTime:    avg,
	}
}

func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("producer is already closed")
	}
	return p.writer.Close()
}
