package outbox

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/internal/infrastructure"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
)

const _releaseTimeout = 5 * time.Second

type Settings struct {
	PollInterval        time.Duration
	CleanupInterval     time.Duration
	MarkFailedInterval  time.Duration
	ProcessBatchTimeout time.Duration
	BatchSize           int
	MaxRetries          int
}

// OutboxRelay publishes attestation outbox events to Kafka. A claimed batch that
// could not be published goes back to pending with one retry used.
type OutboxRelay struct {
	outbox usecase.OutboxUseCase
	es     infrastructure.EventsSender
	logger logger.Interface

	settings Settings

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(outbox usecase.OutboxUseCase, es infrastructure.EventsSender, l logger.Interface, s Settings) *OutboxRelay {
	return &OutboxRelay{
		outbox:   outbox,
		es:       es,
		logger:   l,
		settings: s,
	}
}

func (r *OutboxRelay) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("OutboxRelay - Start - worker already started")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	r.worker(r.settings.PollInterval, r.publish)
	r.worker(r.settings.MarkFailedInterval, r.markFailed)
	r.worker(r.settings.CleanupInterval, r.cleanup)

	return nil
}

func (r *OutboxRelay) publish() {
	batchCtx, batchCancel := context.WithTimeout(r.ctx, r.settings.ProcessBatchTimeout)
	defer batchCancel()

	r.processEventsBatch(batchCtx)
}

func (r *OutboxRelay) markFailed() {
	err := r.outbox.MarkMaxRetriesAsFailed(r.ctx, r.settings.MaxRetries)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - markFailed - r.outbox.MarkMaxRetriesAsFailed")
	}
}

func (r *OutboxRelay) cleanup() {
	err := r.outbox.CleanupOutbox(r.ctx)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - cleanup - r.outbox.CleanupOutbox")
	}
}

func (r *OutboxRelay) processEventsBatch(ctx context.Context) {
	// 1. Pending events with retries left
	events, err := r.outbox.GetPendingEvents(ctx, r.settings.MaxRetries, r.settings.BatchSize)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.outbox.GetPendingEvents")

		return
	}
	if len(events) == 0 {
		return
	}

	// 2. Claim
	err = r.outbox.MarkAsProcessingBatch(ctx, events)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.outbox.MarkAsProcessingBatch")

		return
	}

	// 3. Publish
	err = r.es.SendEvents(ctx, events)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.es.SendEvents")

		// the batch deadline may be what failed the send
		releaseCtx, releaseCancel := context.WithTimeout(context.WithoutCancel(ctx), _releaseTimeout)
		defer releaseCancel()

		incErr := r.outbox.IncrementRetryCountBatch(releaseCtx, events)
		if incErr != nil {
			r.logger.Error(incErr, "OutboxRelay - processEventsBatch - r.outbox.IncrementRetryCountBatch")
		}

		return
	}

	// 4. Done
	err = r.outbox.MarkAsProcessedBatch(ctx, events)
	if err != nil {
		r.logger.Error(err, "OutboxRelay - processEventsBatch - r.outbox.MarkAsProcessedBatch")

		return
	}

	confirmed, ambiguous := countByType(events)
	r.logger.Debug("OutboxRelay - processEventsBatch - published %d confirmed, %d ambiguous", confirmed, ambiguous)
}

func countByType(events []*entity.OutboxEvent) (confirmed, ambiguous int) {
	for _, e := range events {
		switch e.Type {
		case entity.EventAttestationConfirmed:
			confirmed++
		case entity.EventAttestationAmbiguous:
			ambiguous++
		}
	}

	return confirmed, ambiguous
}

func (r *OutboxRelay) worker(interval time.Duration, task func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (r *OutboxRelay) Shutdown(ctx context.Context) error {
	if !r.started.Load() {
		return nil
	}

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		err := r.es.Close()
		if err != nil {
			r.logger.Error(err, "OutboxRelay - Shutdown - r.es.Close")
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("OutboxRelay - Shutdown: %w", ctx.Err())
	}
}
