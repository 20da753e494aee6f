package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/internal/infrastructure"
	kafkapc "github.com/andreyxaxa/Event-Attestor/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaController settles ambiguous submissions announced on the attestation topic.
// Other event types are committed without processing.
type KafkaController struct {
	att    usecase.AttestationUseCase
	er     infrastructure.EventsReader
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	att usecase.AttestationUseCase,
	er infrastructure.EventsReader,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *KafkaController {
	if workers < 1 {
		workers = 1
	}

	return &KafkaController{
		att:            att,
		er:             er,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				// 1. Read
				event, err := c.er.ReadEvent(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "KafkaController - Start - c.er.ReadEvent")
					}
					continue
				}

				// 2. Hand over to workers
				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *KafkaController) handleEvent(ctx context.Context, event kafka.Message) error {
	eventType := kafkapc.EventType(event)
	if eventType != entity.EventAttestationAmbiguous {
		return nil
	}

	var payload AttestationEventPayload
	err := json.Unmarshal(event.Value, &payload)
	if err != nil {
		// a malformed event never becomes readable, skip it
		c.logger.Error(err, "KafkaController - handleEvent - json.Unmarshal")

		return nil
	}

	record, err := c.att.Reconcile(ctx, payload.ID)
	if err != nil {
		return fmt.Errorf("KafkaController - handleEvent - c.att.Reconcile: %w", err)
	}

	switch record.State {
	case entity.Confirmed:
		c.logger.Info("KafkaController - handleEvent - record %s confirmed as %s", record.ID, record.AttestationUID)
	case entity.Failed:
		c.logger.Warn("KafkaController - handleEvent - record %s failed: %s", record.ID, record.Error)
	default:
		c.logger.Warn("KafkaController - handleEvent - record %s still %s, tx %s", record.ID, record.State, record.TxHash)
	}

	return nil
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
			err := c.handleEvent(processCtx, event)
			processCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.handleEvent")

				return
			}

			// commit only what was handled
			commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
			err = c.er.CommitEvent(commitCtx, event)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.er.CommitEvent")
			}
		}()
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		err := c.er.Close()
		if err != nil {
			c.logger.Error(err, "KafkaController - Shutdown - c.er.Close")
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("KafkaController - Shutdown: %w", ctx.Err())
	}
}
