package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "/tmp/videos", cfg.Upload.ChunkRoot)
	assert.Equal(t, "/media/uploads", cfg.Upload.ExternalRoot)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxChunkSize)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Second, cfg.Outbox.Interval)
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.Empty(t, cfg.MinIO.Endpoint, "archiving disabled by default")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("UPLOAD_MAX_CHUNK_SIZE", "2097152")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, int64(2<<20), cfg.Upload.MaxChunkSize)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}
