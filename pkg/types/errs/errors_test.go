package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      Kind
		retryable bool
	}{
		{"nil", nil, "", false},
		{"validation", fmt.Errorf("coordinates: %w", ErrValidation), KindValidation, false},
		{"storage unavailable", fmt.Errorf("Store - PutObject: %w", ErrStorageUnavailable), KindUpstreamUnavailable, true},
		{"storage rejected", ErrStorageRejected, KindUpstreamRejected, false},
		{"inference timeout", ErrInferenceTimeout, KindUpstreamUnavailable, true},
		{"schema mismatch", ErrSchemaMismatch, KindUpstreamRejected, false},
		{"signing", ErrSigningUnavailable, KindUpstreamUnavailable, true},
		{"rejected", ErrSubmissionRejected, KindUpstreamRejected, false},
		{"confirmation timeout", &AmbiguousSubmissionError{TxHash: "0x01", Err: ErrConfirmationTimeout}, KindAmbiguousSubmission, false},
		{"pending", ErrPendingSubmission, KindAmbiguousSubmission, false},
		{"canceled", context.Canceled, KindInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := Classify(tt.err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.retryable, kind.Retryable())
		})
	}
}

func TestAmbiguousSubmissionError(t *testing.T) {
	err := fmt.Errorf("EAS - AwaitConfirmation: %w", &AmbiguousSubmissionError{TxHash: "0xabc", Err: ErrConfirmationTimeout})

	var ambiguous *AmbiguousSubmissionError
	if assert.True(t, errors.As(err, &ambiguous)) {
		assert.Equal(t, "0xabc", ambiguous.TxHash)
	}
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
	assert.ErrorIs(t, err, ErrAmbiguousSubmission)
	assert.NotErrorIs(t, err, ErrUpstreamRejected)
	assert.Contains(t, err.Error(), "transaction 0xabc")
}
