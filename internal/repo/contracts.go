package repo

import (
	"context"
	"io"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/google/uuid"
)

type (
	// ContentStore is write-once: an accepted blob is public and cannot be removed.
	ContentStore interface {
		Store(ctx context.Context, blob []byte, name, contentType string) (entity.StoredContentRef, error)
	}

	Staging interface {
		Stage(ctx context.Context, data io.Reader, originalName string) (*entity.StagedUpload, error)
		Read(ctx context.Context, upload *entity.StagedUpload) ([]byte, error)
		Release(upload *entity.StagedUpload) error
	}

	AttestationRecordRepo interface {
		Create(ctx context.Context, record *entity.AttestationRecord) error
		Update(ctx context.Context, record *entity.AttestationRecord) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.AttestationRecord, error)
		GetByTxHash(ctx context.Context, txHash string) (*entity.AttestationRecord, error)
		// FindLatestSubmission returns the newest record for the same content, recipient,
		// schema and encoded payload that reached the ledger (submitted, ambiguous or confirmed).
		FindLatestSubmission(ctx context.Context, contentID, recipient, schemaUID, payloadHash string) (*entity.AttestationRecord, error)
	}

	OutboxRepo interface {
		Create(ctx context.Context, event *entity.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit, maxRetries int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		DeleteOldProcessedAndFailed(ctx context.Context) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
