package attestation

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
)

// Persistence of intermediate states never fails a request: the ledger, not the
// records table, is the source of truth for an attestation.

func (uc *AttestationUseCase) create(ctx context.Context, record *entity.AttestationRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _persistTimeout)
	defer cancel()

	err := uc.records.Create(ctx, record)
	if err != nil {
		uc.logger.Error(err, "AttestationUseCase - create - uc.records.Create")
	}
}

func (uc *AttestationUseCase) advance(ctx context.Context, record *entity.AttestationRecord, state entity.State) {
	record.Advance(state)
	uc.persist(ctx, record)
}

func (uc *AttestationUseCase) persist(ctx context.Context, record *entity.AttestationRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _persistTimeout)
	defer cancel()

	err := uc.records.Update(ctx, record)
	if err != nil {
		uc.logger.Error(err, "AttestationUseCase - persist - uc.records.Update")
	}
}

// finish stores a terminal state together with its outbox event.
func (uc *AttestationUseCase) finish(ctx context.Context, record *entity.AttestationRecord, eventType string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _persistTimeout)
	defer cancel()

	event, err := uc.createOutboxEvent(record, eventType)
	if err != nil {
		return fmt.Errorf("AttestationUseCase - finish - uc.createOutboxEvent: %w", err)
	}

	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. terminal state
		if err := uc.records.Update(ctx, record); err != nil {
			return fmt.Errorf("uc.records.Update: %w", err)
		}

		// 2. event for the relay
		if err := uc.outbox.Create(ctx, event); err != nil {
			return fmt.Errorf("uc.outbox.Create: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("AttestationUseCase - finish - uc.transactor.WithinTransaction: %w", err)
	}

	return nil
}
