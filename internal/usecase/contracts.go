package usecase

import (
	"context"

	"github.com/andreyxaxa/Event-Attestor/internal/dto"
	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/google/uuid"
)

//go:generate mockgen -source=contracts.go -destination=./mocks/mocks_usecase.go -package=mocks

type (
	AttestationUseCase interface {
		Attest(ctx context.Context, req dto.UploadRequest) (*entity.AttestationResult, error)
		GetRecord(ctx context.Context, id uuid.UUID) (*entity.AttestationRecord, error)
		GetRecordByTxHash(ctx context.Context, txHash string) (*entity.AttestationRecord, error)
		Reconcile(ctx context.Context, id uuid.UUID) (*entity.AttestationRecord, error)
	}

	OutboxUseCase interface {
		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		CleanupOutbox(ctx context.Context) error
	}
)
