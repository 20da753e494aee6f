package errs

import (
	"errors"
	"fmt"
)

// Categories. Every stage error below wraps exactly one of them.
var (
	ErrValidation          = errors.New("validation error")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamRejected    = errors.New("upstream rejected")
	ErrAmbiguousSubmission = errors.New("ambiguous submission")
)

var (
	ErrRecordNotFound = errors.New("record not found")

	ErrStorageUnavailable = fmt.Errorf("storage unavailable: %w", ErrUpstreamUnavailable)
	ErrStorageRejected    = fmt.Errorf("storage rejected: %w", ErrUpstreamRejected)

	ErrInferenceUnavailable = fmt.Errorf("inference unavailable: %w", ErrUpstreamUnavailable)
	ErrInferenceRejected    = fmt.Errorf("inference rejected: %w", ErrUpstreamRejected)
	ErrInferenceTimeout     = fmt.Errorf("inference timeout: %w", ErrUpstreamUnavailable)

	ErrSchemaMismatch = fmt.Errorf("schema mismatch: %w", ErrUpstreamRejected)

	ErrHistoryUnavailable = fmt.Errorf("submission history unavailable: %w", ErrUpstreamUnavailable)

	ErrSigningUnavailable  = fmt.Errorf("signing unavailable: %w", ErrUpstreamUnavailable)
	ErrLedgerUnavailable   = fmt.Errorf("ledger unavailable: %w", ErrUpstreamUnavailable)
	ErrSubmissionRejected  = fmt.Errorf("submission rejected: %w", ErrUpstreamRejected)
	ErrConfirmationTimeout = fmt.Errorf("confirmation timeout: %w", ErrAmbiguousSubmission)
	ErrBroadcastUnknown    = fmt.Errorf("broadcast outcome unknown: %w", ErrAmbiguousSubmission)
	ErrPendingSubmission   = fmt.Errorf("prior submission awaiting confirmation: %w", ErrAmbiguousSubmission)
)

// AmbiguousSubmissionError is returned once a transaction has left the service and
// its inclusion was not observed. TxHash is what the caller should look up on the
// ledger before retrying. Attester and Nonce identify the signer slot the
// transaction occupies, so a later check can tell when it was replaced.
type AmbiguousSubmissionError struct {
	TxHash   string
	Attester string
	Nonce    uint64
	Err      error
}

func (e *AmbiguousSubmissionError) Error() string {
	return fmt.Sprintf("%v: transaction %s", e.Err, e.TxHash)
}

func (e *AmbiguousSubmissionError) Unwrap() error {
	return e.Err
}

type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamRejected    Kind = "upstream_rejected"
	KindAmbiguousSubmission Kind = "ambiguous_submission"
	KindInternal            Kind = "internal"
)

// Classify maps err onto the error taxonomy. Ambiguity wins over every other
// category so a broadcast transaction is never reported as a plain failure.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAmbiguousSubmission):
		return KindAmbiguousSubmission
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUpstreamRejected):
		return KindUpstreamRejected
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}

// Retryable reports whether the caller may retry with backoff.
func (k Kind) Retryable() bool {
	return k == KindUpstreamUnavailable
}
