package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		PG              PG
		ContentStore    ContentStore
		Inference       Inference
		Ledger          Ledger
		Parser          Parser
		Staging         Staging
		OutboxRelay     OutboxRelay
		Kafka           Kafka
		KafkaController KafkaController
		Swagger         Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		// WriteTimeout has to outlive the whole pipeline, ledger confirmation included.
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"4m"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	ContentStore struct {
		// Provider is "s3" (S3-compatible IPFS pinning bucket) or "pinata".
		Provider string        `env:"CONTENT_STORE_PROVIDER" envDefault:"s3"`
		Gateway  string        `env:"CONTENT_STORE_GATEWAY" envDefault:"https://ipfs.filebase.io"`
		Timeout  time.Duration `env:"CONTENT_STORE_TIMEOUT" envDefault:"30s"`

		S3Endpoint       string        `env:"S3_ENDPOINT" envDefault:"https://s3.filebase.com"`
		S3AccessKey      string        `env:"S3_ACCESS_KEY"`
		S3SecretKey      string        `env:"S3_SECRET_KEY"`
		S3Bucket         string        `env:"S3_BUCKET"`
		S3Region         string        `env:"S3_REGION" envDefault:"us-east-1"`
		S3CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`

		PinataURL string `env:"PINATA_API_URL" envDefault:"https://api.pinata.cloud"`
		PinataJWT string `env:"PINATA_JWT"`
	}

	Inference struct {
		APIKey    string        `env:"OPENAI_API_KEY,required"`
		BaseURL   string        `env:"OPENAI_BASE_URL"`
		Model     string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
		MaxTokens int           `env:"OPENAI_MAX_TOKENS" envDefault:"300"`
		Timeout   time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"60s"`
	}

	Ledger struct {
		RPCURL     string `env:"LEDGER_RPC_URL,required"`
		PrivateKey string `env:"LEDGER_PRIVATE_KEY,required"`
		// ChainID 0 means ask the node.
		ChainID    int64  `env:"LEDGER_CHAIN_ID" envDefault:"0"`
		EASAddress string `env:"EAS_CONTRACT_ADDRESS" envDefault:"0x4200000000000000000000000000000000000021"`
		// SchemaUID empty means the UID derived from the event schema, resolver and revocable flag.
		SchemaUID     string        `env:"EAS_SCHEMA_UID"`
		Resolver      string        `env:"EAS_SCHEMA_RESOLVER" envDefault:"0x0000000000000000000000000000000000000000"`
		Revocable     bool          `env:"EAS_REVOCABLE" envDefault:"true"`
		ExpirationTTL time.Duration `env:"EAS_EXPIRATION_TTL" envDefault:"0s"`

		Confirmations    uint64        `env:"LEDGER_CONFIRMATIONS" envDefault:"1"`
		PollInterval     time.Duration `env:"LEDGER_POLL_INTERVAL" envDefault:"2s"`
		BroadcastTimeout time.Duration `env:"LEDGER_BROADCAST_TIMEOUT" envDefault:"30s"`
		ConfirmTimeout   time.Duration `env:"LEDGER_CONFIRM_TIMEOUT" envDefault:"120s"`
	}

	Parser struct {
		DefaultEventName        string `env:"PARSER_DEFAULT_EVENT_NAME" envDefault:"Untitled Event"`
		DefaultEventDescription string `env:"PARSER_DEFAULT_EVENT_DESCRIPTION" envDefault:"No description available"`
		DefaultOccasion         string `env:"PARSER_DEFAULT_OCCASION" envDefault:"Unspecified occasion"`
		MemoryDescription       string `env:"PARSER_MEMORY_DESCRIPTION" envDefault:"Generated from automated analysis of the image"`
	}

	Staging struct {
		Dir       string `env:"STAGING_DIR" envDefault:"uploads"`
		MaxSize   int64  `env:"STAGING_MAX_SIZE" envDefault:"10485760"`
		MaxPixels int    `env:"IMAGE_MAX_PIXELS" envDefault:"67108864"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS,required"`
		GroupID string   `env:"KAFKA_GROUP_ID,required"`
		Topic   string   `env:"KAFKA_TOPIC,required"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"3"`
	}

	KafkaController struct {
		CommitTimeout time.Duration `env:"KAFKA_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		// ProcessTimeout covers one ledger lookup and the record update.
		ProcessTimeout  time.Duration `env:"KAFKA_CONTROLLER_PROCESS_TIMEOUT" envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"KAFKA_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		Workers         int           `env:"KAFKA_CONTROLLER_WORKERS" envDefault:"4"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.ContentStore.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (c ContentStore) validate() error {
	switch c.Provider {
	case "s3":
		if c.S3AccessKey == "" || c.S3SecretKey == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required for provider s3")
		}
	case "pinata":
		if c.PinataJWT == "" {
			return fmt.Errorf("PINATA_JWT is required for provider pinata")
		}
	default:
		return fmt.Errorf("unknown CONTENT_STORE_PROVIDER %q", c.Provider)
	}

	return nil
}
