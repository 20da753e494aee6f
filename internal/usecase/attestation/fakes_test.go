package attestation

import (
	"context"
	"sync"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/google/uuid"
)

type memRecords struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]entity.AttestationRecord
	findErr error
}

func newMemRecords(seed ...entity.AttestationRecord) *memRecords {
	r := &memRecords{byID: map[uuid.UUID]entity.AttestationRecord{}}
	for _, rec := range seed {
		r.byID[rec.ID] = rec
	}

	return r
}

func (r *memRecords) Create(_ context.Context, record *entity.AttestationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[record.ID] = *record

	return nil
}

func (r *memRecords) Update(_ context.Context, record *entity.AttestationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[record.ID]; !ok {
		return errs.ErrRecordNotFound
	}
	r.byID[record.ID] = *record

	return nil
}

func (r *memRecords) GetByID(_ context.Context, id uuid.UUID) (*entity.AttestationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return &rec, nil
}

func (r *memRecords) GetByTxHash(_ context.Context, txHash string) (*entity.AttestationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first *entity.AttestationRecord
	for _, rec := range r.byID {
		rec := rec
		if rec.TxHash != txHash {
			continue
		}
		if first == nil || rec.CreatedAt.Before(first.CreatedAt) {
			first = &rec
		}
	}

	if first == nil {
		return nil, errs.ErrRecordNotFound
	}

	return first, nil
}

func (r *memRecords) FindLatestSubmission(_ context.Context, contentID, recipient, schemaUID, payloadHash string) (*entity.AttestationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}

	var latest *entity.AttestationRecord
	for _, rec := range r.byID {
		rec := rec
		if rec.ContentID != contentID || rec.Recipient != recipient || rec.SchemaUID != schemaUID || rec.PayloadHash != payloadHash || rec.TxHash == "" {
			continue
		}
		if rec.State != entity.Submitted && rec.State != entity.Ambiguous && rec.State != entity.Confirmed {
			continue
		}
		if latest == nil || rec.UpdatedAt.After(latest.UpdatedAt) {
			latest = &rec
		}
	}

	if latest == nil {
		return nil, errs.ErrRecordNotFound
	}

	return latest, nil
}

func (r *memRecords) get(id uuid.UUID) entity.AttestationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.byID[id]
}

func (r *memRecords) only() entity.AttestationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.byID {
		return rec
	}

	return entity.AttestationRecord{}
}

type memOutbox struct {
	mu     sync.Mutex
	events []*entity.OutboxEvent
}

func (o *memOutbox) Create(_ context.Context, event *entity.OutboxEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.events = append(o.events, event)

	return nil
}

func (o *memOutbox) GetPendingEvents(context.Context, int, int) ([]*entity.OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.events, nil
}

func (o *memOutbox) MarkAsProcessingBatch(context.Context, uuid.UUIDs) error    { return nil }
func (o *memOutbox) MarkAsProcessedBatch(context.Context, uuid.UUIDs) error     { return nil }
func (o *memOutbox) IncrementRetryCountBatch(context.Context, uuid.UUIDs) error { return nil }
func (o *memOutbox) MarkMaxRetriesAsFailed(context.Context, int) error          { return nil }
func (o *memOutbox) DeleteOldProcessedAndFailed(context.Context) (int64, error) { return 0, nil }

func (o *memOutbox) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.Type)
	}

	return out
}

type passTransactor struct{}

func (passTransactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}
