package attestation

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/google/uuid"
)

// Reconcile settles a submitted or ambiguous record against the ledger. Records in
// any other state are returned as they are. A transaction that is still unknown
// leaves the record ambiguous.
func (uc *AttestationUseCase) Reconcile(ctx context.Context, id uuid.UUID) (*entity.AttestationRecord, error) {
	record, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - Reconcile - uc.records.GetByID: %w", err)
	}

	if record.State != entity.Ambiguous && record.State != entity.Submitted {
		return record, nil
	}
	if record.TxHash == "" {
		return record, nil
	}

	receipt, included, err := uc.lookup(ctx, record)
	switch {
	case errors.Is(err, errs.ErrUpstreamRejected):
		record.Fail(entity.StageConfirm, err)

		err = uc.records.Update(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("AttestationUseCase - Reconcile - uc.records.Update: %w", err)
		}

		uc.logger.Warn("AttestationUseCase - Reconcile - record %s tx %s will not land: %v", record.ID, record.TxHash, record.Error)

		return record, nil
	case err != nil:
		return nil, fmt.Errorf("AttestationUseCase - Reconcile - uc.lookup: %w", err)
	case !included:
		return record, nil
	}

	record.Confirm(receipt)

	err = uc.finish(ctx, record, entity.EventAttestationConfirmed)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - Reconcile - uc.finish: %w", err)
	}

	uc.logger.Info("AttestationUseCase - Reconcile - record %s confirmed as %s", record.ID, record.AttestationUID)

	return record, nil
}
