package attestation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase/pipeline"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
)

// submit broadcasts the attestation and waits for inclusion. Before broadcasting it
// checks for an earlier submission of the same content, recipient, schema and payload;
// when that earlier attestation is reused its record is returned as well.
func (uc *AttestationUseCase) submit(ctx context.Context, record *entity.AttestationRecord) (entity.AttestationReceipt, *entity.AttestationRecord, error) {
	// 1. Last point where a client disconnect still stops the pipeline
	if err := ctx.Err(); err != nil {
		return entity.AttestationReceipt{}, nil, &pipeline.StageError{
			Stage: entity.StageSubmit,
			Err:   fmt.Errorf("not started: %w", err),
		}
	}

	// 2. Earlier submission
	receipt, prior, err := uc.priorSubmission(ctx, record)
	if err != nil {
		return entity.AttestationReceipt{}, nil, &pipeline.StageError{Stage: entity.StageSubmit, Err: err}
	}
	if prior != nil {
		return receipt, prior, nil
	}

	// 3. From here on the transaction may leave the service, so the client
	// can no longer cancel it
	detached := context.WithoutCancel(ctx)

	sub, err := pipeline.Run(detached, uc.broadcastStage(), record.Request())
	if err != nil {
		return entity.AttestationReceipt{}, nil, err
	}
	record.MarkSubmitted(sub)
	uc.persist(ctx, record)

	// 4. Confirm
	receipt, err = pipeline.Run(detached, uc.confirmStage(), sub)
	if err != nil {
		return entity.AttestationReceipt{}, nil, err
	}

	return receipt, nil, nil
}

func (uc *AttestationUseCase) priorSubmission(ctx context.Context, record *entity.AttestationRecord) (entity.AttestationReceipt, *entity.AttestationRecord, error) {
	prior, err := uc.records.FindLatestSubmission(ctx, record.ContentID, record.Recipient, record.SchemaUID, record.PayloadHash)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return entity.AttestationReceipt{}, nil, nil
		}

		return entity.AttestationReceipt{}, nil, fmt.Errorf("uc.records.FindLatestSubmission: %w: %v", errs.ErrHistoryUnavailable, err)
	}

	if prior.State == entity.Confirmed {
		if prior.Expiration != nil && !prior.Expiration.After(time.Now()) {
			// expired attestations are no longer valid, attest again
			return entity.AttestationReceipt{}, nil, nil
		}

		return prior.Receipt(), prior, nil
	}

	// submitted or ambiguous: ask the ledger what happened to it
	receipt, included, err := uc.lookup(ctx, prior)
	switch {
	case errors.Is(err, errs.ErrUpstreamRejected):
		// reverted or replaced, it will never land
		prior.Fail(entity.StageConfirm, err)
		uc.persist(ctx, prior)

		return entity.AttestationReceipt{}, nil, nil
	case err != nil:
		return entity.AttestationReceipt{}, nil, fmt.Errorf("uc.lookup: %w", err)
	case included:
		prior.Confirm(receipt)
		finishErr := uc.finish(ctx, prior, entity.EventAttestationConfirmed)
		if finishErr != nil {
			uc.logger.Error(finishErr, "AttestationUseCase - priorSubmission - uc.finish")
		}

		return receipt, prior, nil
	default:
		return entity.AttestationReceipt{}, nil, &errs.AmbiguousSubmissionError{
			TxHash:   prior.TxHash,
			Attester: prior.Attester,
			Nonce:    prior.Nonce,
			Err:      fmt.Errorf("%w: record %s", errs.ErrPendingSubmission, prior.ID),
		}
	}
}

func (uc *AttestationUseCase) lookup(ctx context.Context, record *entity.AttestationRecord) (entity.AttestationReceipt, bool, error) {
	if uc.settings.BroadcastTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.settings.BroadcastTimeout)
		defer cancel()
	}

	return uc.ledger.Lookup(ctx, record.Submission())
}
