package attestation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/dto"
	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/internal/infrastructure"
	"github.com/andreyxaxa/Event-Attestor/internal/repo"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase/parser"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase/pipeline"
	"github.com/andreyxaxa/Event-Attestor/pkg/easschema"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

const _persistTimeout = 5 * time.Second

var (
	_ usecase.AttestationUseCase = (*AttestationUseCase)(nil)
	_ usecase.OutboxUseCase      = (*AttestationUseCase)(nil)
)

type Settings struct {
	// SchemaUID of the registered event schema. Empty means the encoder's own UID.
	SchemaUID     string
	Revocable     bool
	ExpirationTTL time.Duration

	StoreTimeout     time.Duration
	DescribeTimeout  time.Duration
	BroadcastTimeout time.Duration
	ConfirmTimeout   time.Duration
}

type Repositories struct {
	Staging    repo.Staging
	Content    repo.ContentStore
	Records    repo.AttestationRecordRepo
	Outbox     repo.OutboxRepo
	Transactor repo.Transactor
}

type Services struct {
	Inspector infrastructure.ImageInspector
	Describer infrastructure.Describer
	Ledger    infrastructure.Ledger
}

// AttestationUseCase drives one upload through
// store, describe, parse, encode, submit and confirm.
type AttestationUseCase struct {
	staging    repo.Staging
	content    repo.ContentStore
	records    repo.AttestationRecordRepo
	outbox     repo.OutboxRepo
	transactor repo.Transactor

	inspector infrastructure.ImageInspector
	describer infrastructure.Describer
	ledger    infrastructure.Ledger

	parser  *parser.Parser
	encoder *easschema.Encoder

	settings  Settings
	schemaUID common.Hash

	logger logger.Interface
}

func New(
	r Repositories,
	s Services,
	p *parser.Parser,
	enc *easschema.Encoder,
	settings Settings,
	l logger.Interface,
) *AttestationUseCase {
	schemaUID := enc.UID()
	if settings.SchemaUID != "" {
		schemaUID = common.HexToHash(settings.SchemaUID)
	}
	settings.SchemaUID = schemaUID.Hex()

	return &AttestationUseCase{
		staging:    r.Staging,
		content:    r.Content,
		records:    r.Records,
		outbox:     r.Outbox,
		transactor: r.Transactor,
		inspector:  s.Inspector,
		describer:  s.Describer,
		ledger:     s.Ledger,
		parser:     p,
		encoder:    enc,
		settings:   settings,
		schemaUID:  schemaUID,
		logger:     l,
	}
}

func (uc *AttestationUseCase) SchemaUID() string {
	return uc.settings.SchemaUID
}

// VerifySchema fails when the configured schema UID is not the one derived from the
// event layout, since every encode would then be rejected.
func (uc *AttestationUseCase) VerifySchema() error {
	if uc.schemaUID != uc.encoder.UID() {
		return fmt.Errorf("AttestationUseCase - VerifySchema: %w: configured %s, layout %s",
			errs.ErrSchemaMismatch, uc.schemaUID.Hex(), uc.encoder.UID().Hex())
	}

	return nil
}

// Attest runs the full pipeline for one upload. The staged copy of the upload is
// released exactly once, on every path out of this method.
func (uc *AttestationUseCase) Attest(ctx context.Context, req dto.UploadRequest) (*entity.AttestationResult, error) {
	// 1. Stage upload
	upload, err := uc.staging.Stage(ctx, req.Data, req.OriginalName)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - Attest - uc.staging.Stage: %w", err)
	}
	defer uc.release(upload)

	blob, err := uc.staging.Read(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - Attest - uc.staging.Read: %w", err)
	}

	// 2. Intake validation, before any external service sees the bytes
	info, err := uc.inspector.Inspect(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - Attest - uc.inspector.Inspect: %w", err)
	}

	// 3. Record
	record := uc.newRecord(req, info)
	uc.create(ctx, record)

	// 4. Pipeline
	result, err := uc.run(ctx, record, blob, req.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - Attest: %w", uc.fail(ctx, record, err))
	}

	return result, nil
}

func (uc *AttestationUseCase) run(
	ctx context.Context,
	record *entity.AttestationRecord,
	blob []byte,
	coordinates entity.Coordinates,
) (*entity.AttestationResult, error) {
	// 1. Store
	content, err := pipeline.Run(ctx, uc.storeStage(record), blob)
	if err != nil {
		return nil, err
	}
	record.ContentID = content.ContentID
	record.StorageURL = content.RetrievalURL
	uc.advance(ctx, record, entity.Stored)

	// 2. Describe
	text, err := pipeline.Run(ctx, uc.describeStage(), content.RetrievalURL)
	if err != nil {
		return nil, err
	}
	uc.advance(ctx, record, entity.Described)

	// 3. Parse
	event, err := pipeline.Run(ctx, uc.parseStage(coordinates), text)
	if err != nil {
		return nil, err
	}
	record.Event = &event
	uc.advance(ctx, record, entity.Parsed)

	// 4. Encode
	payload, err := pipeline.Run(ctx, uc.encodeStage(), event)
	if err != nil {
		return nil, err
	}
	record.Payload = payload
	record.PayloadHash = crypto.Keccak256Hash(payload).Hex()
	uc.advance(ctx, record, entity.Encoded)

	// 5. Submit and confirm
	receipt, prior, err := uc.submit(ctx, record)
	if err != nil {
		return nil, err
	}

	record.Confirm(receipt)
	deduplicated := prior != nil
	if deduplicated {
		// the reused attestation carries the earlier run's event and expiration
		if prior.Event != nil {
			event = *prior.Event
			record.Event = &event
		}
		record.Expiration = receipt.Expiration
		uc.persist(ctx, record)
		uc.logger.Info("AttestationUseCase - run - record %s reuses attestation %s", record.ID, receipt.AttestationID)
	} else {
		err = uc.finish(ctx, record, entity.EventAttestationConfirmed)
		if err != nil {
			uc.logger.Error(err, "AttestationUseCase - run - uc.finish")
		}
		uc.logger.Info("AttestationUseCase - run - record %s attested as %s in tx %s", record.ID, receipt.AttestationID, receipt.TxHash)
	}

	return &entity.AttestationResult{
		Record:       record,
		Content:      content,
		Event:        event,
		Receipt:      receipt,
		Deduplicated: deduplicated,
	}, nil
}

// fail records the terminal state for err and returns err unchanged.
func (uc *AttestationUseCase) fail(ctx context.Context, record *entity.AttestationRecord, err error) error {
	var stage entity.Stage
	var se *pipeline.StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}

	var amb *errs.AmbiguousSubmissionError
	if errors.As(err, &amb) {
		if record.TxHash == "" {
			record.TxHash = amb.TxHash
		}
		if record.Attester == "" {
			record.Attester = amb.Attester
			record.Nonce = amb.Nonce
		}
		record.FailedStage = stage
		record.Error = err.Error()
		record.Advance(entity.Ambiguous)

		finishErr := uc.finish(ctx, record, entity.EventAttestationAmbiguous)
		if finishErr != nil {
			uc.logger.Error(finishErr, "AttestationUseCase - fail - uc.finish")
		}
		uc.logger.Warn("AttestationUseCase - fail - record %s ambiguous, tx %s: %v", record.ID, amb.TxHash, err)

		return err
	}

	record.Fail(stage, err)
	uc.persist(ctx, record)

	return err
}

func (uc *AttestationUseCase) release(upload *entity.StagedUpload) {
	err := uc.staging.Release(upload)
	if err != nil {
		uc.logger.Error(err, "AttestationUseCase - release - uc.staging.Release")
	}
}

func (uc *AttestationUseCase) newRecord(req dto.UploadRequest, info entity.ImageInfo) *entity.AttestationRecord {
	now := time.Now().UTC()

	record := &entity.AttestationRecord{
		ID:           uuid.New(),
		State:        entity.Received,
		OriginalName: req.OriginalName,
		ContentType:  info.ContentType,
		Recipient:    req.Recipient,
		SchemaUID:    uc.settings.SchemaUID,
		Revocable:    uc.settings.Revocable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if uc.settings.ExpirationTTL > 0 {
		exp := now.Add(uc.settings.ExpirationTTL).Truncate(time.Second)
		record.Expiration = &exp
	}

	return record
}

func (uc *AttestationUseCase) GetRecord(ctx context.Context, id uuid.UUID) (*entity.AttestationRecord, error) {
	record, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - GetRecord - uc.records.GetByID: %w", err)
	}

	return record, nil
}

func (uc *AttestationUseCase) GetRecordByTxHash(ctx context.Context, txHash string) (*entity.AttestationRecord, error) {
	record, err := uc.records.GetByTxHash(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - GetRecordByTxHash - uc.records.GetByTxHash: %w", err)
	}

	return record, nil
}
