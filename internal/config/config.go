package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"development"`
	HTTPAddr    string `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8081"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	Upload      Upload `yaml:"upload"`
	Kafka       Kafka  `yaml:"kafka"`
	Outbox      Outbox `yaml:"outbox"`
	MinIO       MinIO  `yaml:"minio"`
}

type Upload struct {
	ChunkRoot    string `yaml:"chunk_root" env:"UPLOAD_CHUNK_ROOT" env-default:"/tmp/videos"`
	ExternalRoot string `yaml:"external_root" env:"UPLOAD_EXTERNAL_ROOT" env-default:"/media/uploads"`
	MaxChunkSize int64  `yaml:"max_chunk_size" env:"UPLOAD_MAX_CHUNK_SIZE" env-default:"1048576"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"upload-events"`
}

type Outbox struct {
	Interval  time.Duration `yaml:"interval" env:"OUTBOX_INTERVAL" env-default:"1s"`
	BatchSize int           `yaml:"batch_size" env:"OUTBOX_BATCH_SIZE" env-default:"100"`
}

type MinIO struct {
	// Empty endpoint disables object-storage archiving.
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	Bucket          string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"video-assets"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

// Load reads configuration from the environment, optionally layered over a
// yaml file named by CONFIG_PATH. A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	return &cfg, nil
}
