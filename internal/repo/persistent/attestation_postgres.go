package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/postgres"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	attestationsTable = "attestations"

	// Columns
	idColumn             = "id"
	stateColumn          = "state"
	failedStageColumn    = "failed_stage"
	errorColumn          = "error"
	originalNameColumn   = "original_name"
	contentTypeColumn    = "content_type"
	contentIDColumn      = "content_id"
	storageURLColumn     = "storage_url"
	recipientColumn      = "recipient"
	schemaUIDColumn      = "schema_uid"
	eventColumn          = "event"
	payloadColumn        = "payload"
	payloadHashColumn    = "payload_hash"
	revocableColumn      = "revocable"
	expirationColumn     = "expiration"
	txHashColumn         = "tx_hash"
	attesterColumn       = "attester"
	nonceColumn          = "nonce"
	attestationUIDColumn = "attestation_uid"
	blockNumberColumn    = "block_number"
	createdAtColumn      = "created_at"
	updatedAtColumn      = "updated_at"
)

var recordColumns = []string{
	idColumn,
	stateColumn,
	failedStageColumn,
	errorColumn,
	originalNameColumn,
	contentTypeColumn,
	contentIDColumn,
	storageURLColumn,
	recipientColumn,
	schemaUIDColumn,
	eventColumn,
	payloadColumn,
	payloadHashColumn,
	revocableColumn,
	expirationColumn,
	txHashColumn,
	attesterColumn,
	nonceColumn,
	attestationUIDColumn,
	blockNumberColumn,
	createdAtColumn,
	updatedAtColumn,
}

type AttestationRecordRepo struct {
	*postgres.Postgres
}

func NewAttestationRecordRepo(pg *postgres.Postgres) *AttestationRecordRepo {
	return &AttestationRecordRepo{pg}
}

func (r *AttestationRecordRepo) Create(ctx context.Context, record *entity.AttestationRecord) error {
	event, err := marshalEvent(record.Event)
	if err != nil {
		return fmt.Errorf("AttestationRecordRepo - Create - marshalEvent: %w", err)
	}

	sql, args, err := r.Builder.
		Insert(attestationsTable).
		Columns(recordColumns...).
		Values(
			record.ID,
			record.State,
			record.FailedStage,
			record.Error,
			record.OriginalName,
			record.ContentType,
			record.ContentID,
			record.StorageURL,
			record.Recipient,
			record.SchemaUID,
			event,
			record.Payload,
			record.PayloadHash,
			record.Revocable,
			record.Expiration,
			record.TxHash,
			record.Attester,
			int64(record.Nonce),
			record.AttestationUID,
			int64(record.BlockNumber),
			record.CreatedAt,
			record.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("AttestationRecordRepo - Create - r.Builder.ToSql: %w", err)
	}

	// Pool / Tx
	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("AttestationRecordRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *AttestationRecordRepo) Update(ctx context.Context, record *entity.AttestationRecord) error {
	event, err := marshalEvent(record.Event)
	if err != nil {
		return fmt.Errorf("AttestationRecordRepo - Update - marshalEvent: %w", err)
	}

	sql, args, err := r.Builder.
		Update(attestationsTable).
		SetMap(map[string]interface{}{
			stateColumn:          record.State,
			failedStageColumn:    record.FailedStage,
			errorColumn:          record.Error,
			contentTypeColumn:    record.ContentType,
			contentIDColumn:      record.ContentID,
			storageURLColumn:     record.StorageURL,
			eventColumn:          event,
			payloadColumn:        record.Payload,
			payloadHashColumn:    record.PayloadHash,
			expirationColumn:     record.Expiration,
			txHashColumn:         record.TxHash,
			attesterColumn:       record.Attester,
			nonceColumn:          int64(record.Nonce),
			attestationUIDColumn: record.AttestationUID,
			blockNumberColumn:    int64(record.BlockNumber),
			updatedAtColumn:      record.UpdatedAt,
		}).
		Where(squirrel.Eq{idColumn: record.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("AttestationRecordRepo - Update - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("AttestationRecordRepo - Update - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("AttestationRecordRepo - Update: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func (r *AttestationRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.AttestationRecord, error) {
	record, err := r.getOne(ctx, squirrel.Eq{idColumn: id}, nil)
	if err != nil {
		return nil, fmt.Errorf("AttestationRecordRepo - GetByID: %w", err)
	}

	return record, nil
}

func (r *AttestationRecordRepo) GetByTxHash(ctx context.Context, txHash string) (*entity.AttestationRecord, error) {
	// a resubmission may reuse the hash of a lost transaction; the first owner wins
	record, err := r.getOne(ctx, squirrel.Eq{txHashColumn: txHash}, []string{createdAtColumn + " ASC"})
	if err != nil {
		return nil, fmt.Errorf("AttestationRecordRepo - GetByTxHash: %w", err)
	}

	return record, nil
}

func (r *AttestationRecordRepo) FindLatestSubmission(ctx context.Context, contentID, recipient, schemaUID, payloadHash string) (*entity.AttestationRecord, error) {
	where := squirrel.And{
		squirrel.Eq{contentIDColumn: contentID},
		squirrel.Eq{recipientColumn: recipient},
		squirrel.Eq{schemaUIDColumn: schemaUID},
		squirrel.Eq{payloadHashColumn: payloadHash},
		squirrel.Eq{stateColumn: []string{
			string(entity.Submitted),
			string(entity.Ambiguous),
			string(entity.Confirmed),
		}},
		squirrel.NotEq{txHashColumn: ""},
	}

	record, err := r.getOne(ctx, where, []string{updatedAtColumn + " DESC"})
	if err != nil {
		return nil, fmt.Errorf("AttestationRecordRepo - FindLatestSubmission: %w", err)
	}

	return record, nil
}

func (r *AttestationRecordRepo) getOne(ctx context.Context, where squirrel.Sqlizer, orderBy []string) (*entity.AttestationRecord, error) {
	sql, args, err := r.Builder.
		Select(recordColumns...).
		From(attestationsTable).
		Where(where).
		OrderBy(orderBy...).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var (
		record      entity.AttestationRecord
		event       []byte
		blockNumber int64
		nonce       int64
		expiration  *time.Time
	)

	err = executor.QueryRow(ctx, sql, args...).Scan(
		&record.ID,
		&record.State,
		&record.FailedStage,
		&record.Error,
		&record.OriginalName,
		&record.ContentType,
		&record.ContentID,
		&record.StorageURL,
		&record.Recipient,
		&record.SchemaUID,
		&event,
		&record.Payload,
		&record.PayloadHash,
		&record.Revocable,
		&expiration,
		&record.TxHash,
		&record.Attester,
		&nonce,
		&record.AttestationUID,
		&blockNumber,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrRecordNotFound
		}

		return nil, fmt.Errorf("executor.QueryRow.Scan: %w", err)
	}

	if len(event) > 0 {
		record.Event = &entity.EventRecord{}
		err = json.Unmarshal(event, record.Event)
		if err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
	}

	record.Expiration = expiration
	record.BlockNumber = uint64(blockNumber)
	record.Nonce = uint64(nonce)

	return &record, nil
}

func marshalEvent(event *entity.EventRecord) ([]byte, error) {
	if event == nil {
		return nil, nil
	}

	return json.Marshal(event)
}
