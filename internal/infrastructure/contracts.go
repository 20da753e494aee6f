package infrastructure

import (
	"context"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/segmentio/kafka-go"
)

type (
	EventsSender interface {
		SendEvents(ctx context.Context, events []*entity.OutboxEvent) error
		Close() error
	}

	EventsReader interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		CommitEvent(ctx context.Context, event kafka.Message) error
		Close() error
	}

	// Describer returns the raw model text for a publicly retrievable image.
	Describer interface {
		Describe(ctx context.Context, url string) (string, error)
	}

	// Ledger submits attestations and observes their inclusion.
	Ledger interface {
		Broadcast(ctx context.Context, req entity.AttestationRequest) (entity.Submission, error)
		AwaitConfirmation(ctx context.Context, sub entity.Submission) (entity.AttestationReceipt, error)
		// Lookup reports whether the transaction has been included. A reverted
		// transaction is returned as an error wrapping errs.ErrSubmissionRejected.
		Lookup(ctx context.Context, sub entity.Submission) (entity.AttestationReceipt, bool, error)
	}

	ImageInspector interface {
		Inspect(ctx context.Context, data []byte) (entity.ImageInfo, error)
	}
)
