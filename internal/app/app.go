package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Event-Attestor/config"
	kafkactrl "github.com/andreyxaxa/Event-Attestor/internal/controller/kafka"
	"github.com/andreyxaxa/Event-Attestor/internal/controller/restapi"
	"github.com/andreyxaxa/Event-Attestor/internal/controller/worker/outbox"
	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/internal/infrastructure/inference"
	infrakafka "github.com/andreyxaxa/Event-Attestor/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Event-Attestor/internal/infrastructure/ledger"
	"github.com/andreyxaxa/Event-Attestor/internal/infrastructure/processor"
	"github.com/andreyxaxa/Event-Attestor/internal/repo"
	"github.com/andreyxaxa/Event-Attestor/internal/repo/persistent"
	"github.com/andreyxaxa/Event-Attestor/internal/repo/staging"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase/attestation"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase/parser"
	"github.com/andreyxaxa/Event-Attestor/pkg/easschema"
	"github.com/andreyxaxa/Event-Attestor/pkg/ethnode"
	"github.com/andreyxaxa/Event-Attestor/pkg/httpserver"
	"github.com/andreyxaxa/Event-Attestor/pkg/kafka/consumer"
	"github.com/andreyxaxa/Event-Attestor/pkg/kafka/producer"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
	"github.com/andreyxaxa/Event-Attestor/pkg/postgres"
	"github.com/andreyxaxa/Event-Attestor/pkg/s3client"
	"github.com/ethereum/go-ethereum/common"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// content store
	contentStore, err := newContentStore(ctx, cfg.ContentStore)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newContentStore: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	// staging
	uploads, err := staging.New(cfg.Staging.Dir, cfg.Staging.MaxSize)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - staging.New: %w", err))
	}

	// Infrastructure

	// ledger
	if !common.IsHexAddress(cfg.Ledger.EASAddress) {
		l.Fatal(fmt.Errorf("app - Run - invalid EAS_CONTRACT_ADDRESS %q", cfg.Ledger.EASAddress))
	}

	node, err := ethnode.New(ctx, cfg.Ledger.RPCURL)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - ethnode.New: %w", err))
	}
	defer node.Close()

	chainID := cfg.Ledger.ChainID
	if chainID == 0 {
		chainID = node.ChainID.Int64()
	} else if chainID != node.ChainID.Int64() {
		l.Fatal(fmt.Errorf("app - Run - LEDGER_CHAIN_ID %d, node reports %s", chainID, node.ChainID))
	}

	eas := ledger.New(
		node.Client,
		common.HexToAddress(cfg.Ledger.EASAddress),
		cfg.Ledger.PrivateKey,
		l,
		ledger.ChainID(chainID),
		ledger.PollInterval(cfg.Ledger.PollInterval),
		ledger.Confirmations(cfg.Ledger.Confirmations),
	)
	if eas.Attester() == "" {
		l.Warn("app - Run - LEDGER_PRIVATE_KEY is not a usable key, every submission will fail")
	}

	// inference
	inferenceOpts := []inference.Option{
		inference.Model(cfg.Inference.Model),
		inference.MaxTokens(cfg.Inference.MaxTokens),
	}
	if cfg.Inference.BaseURL != "" {
		inferenceOpts = append(inferenceOpts, inference.BaseURL(cfg.Inference.BaseURL))
	}

	// Use-Case

	// schema
	encoder, err := easschema.NewEncoder(entity.EventSchema, common.HexToAddress(cfg.Ledger.Resolver), cfg.Ledger.Revocable)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - easschema.NewEncoder: %w", err))
	}

	// attestation use-case
	attestationUseCase := attestation.New(
		attestation.Repositories{
			Staging:    uploads,
			Content:    contentStore,
			Records:    persistent.NewAttestationRecordRepo(pg),
			Outbox:     persistent.NewOutboxRepo(pg),
			Transactor: pg,
		},
		attestation.Services{
			Inspector: processor.New(cfg.Staging.MaxPixels),
			Describer: inference.New(cfg.Inference.APIKey, inferenceOpts...),
			Ledger:    eas,
		},
		parser.New(parser.Defaults{
			EventName:         cfg.Parser.DefaultEventName,
			EventDescription:  cfg.Parser.DefaultEventDescription,
			Occasion:          cfg.Parser.DefaultOccasion,
			MemoryDescription: cfg.Parser.MemoryDescription,
		}),
		encoder,
		attestation.Settings{
			SchemaUID:        cfg.Ledger.SchemaUID,
			Revocable:        cfg.Ledger.Revocable,
			ExpirationTTL:    cfg.Ledger.ExpirationTTL,
			StoreTimeout:     cfg.ContentStore.Timeout,
			DescribeTimeout:  cfg.Inference.Timeout,
			BroadcastTimeout: cfg.Ledger.BroadcastTimeout,
			ConfirmTimeout:   cfg.Ledger.ConfirmTimeout,
		},
		l,
	)
	err = attestationUseCase.VerifySchema()
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - attestationUseCase.VerifySchema: %w", err))
	}
	l.Info("app - Run - attesting as %s on chain %d, schema %s", eas.Attester(), chainID, attestationUseCase.SchemaUID())

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	// Outbox Relay Worker
	outboxRelayWorker := outbox.New(
		attestationUseCase,
		infrakafka.NewEventProducer(kafkaProducer, cfg.OutboxRelay.MaxRetries, cfg.Kafka.Topic),
		l,
		outbox.Settings{
			PollInterval:        cfg.OutboxRelay.PollInterval,
			CleanupInterval:     cfg.OutboxRelay.CleanupInterval,
			MarkFailedInterval:  cfg.OutboxRelay.MarkFailedInterval,
			ProcessBatchTimeout: cfg.OutboxRelay.ProcessBatchTimeout,
			BatchSize:           cfg.OutboxRelay.BatchSize,
			MaxRetries:          cfg.OutboxRelay.MaxRetries,
		},
	)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	// Kafka as Controller
	kafkaController := kafkactrl.New(
		attestationUseCase,
		infrakafka.NewEventConsumer(kafkaConsumer),
		l,
		cfg.KafkaController.CommitTimeout,
		cfg.KafkaController.ProcessTimeout,
		cfg.KafkaController.Workers,
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
	)
	restapi.NewRouter(httpServer.App, cfg, attestationUseCase, l)

	// Start Components
	err = outboxRelayWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
	}
	err = kafkaController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
	defer orlShutdownCancel()
	err = outboxRelayWorker.Shutdown(orlShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
	}

	kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
	defer kcShutdownCancel()
	err = kafkaController.Shutdown(kcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
	}
}

func newContentStore(ctx context.Context, cfg config.ContentStore) (repo.ContentStore, error) {
	switch cfg.Provider {
	case "pinata":
		return persistent.NewPinataStore(&http.Client{}, cfg.PinataURL, cfg.PinataJWT, cfg.Gateway), nil
	default:
		s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3CfgLoadTimeout)
		defer s3Cancel()

		s3c, err := s3client.New(s3Ctx, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket,
			s3client.Region(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("s3client.New: %w", err)
		}

		return persistent.NewIPFSObjectStore(s3c, cfg.S3Bucket, cfg.Gateway), nil
	}
}
