package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/andreyxaxa/Event-Attestor/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase/pipeline"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// _intakeStage names failures that happen before the first pipeline stage.
const _intakeStage = "intake"

// _causes is ordered from most to least specific.
var _causes = []error{
	errs.ErrConfirmationTimeout,
	errs.ErrBroadcastUnknown,
	errs.ErrPendingSubmission,
	errs.ErrStorageUnavailable,
	errs.ErrStorageRejected,
	errs.ErrInferenceTimeout,
	errs.ErrInferenceUnavailable,
	errs.ErrInferenceRejected,
	errs.ErrSchemaMismatch,
	errs.ErrHistoryUnavailable,
	errs.ErrSigningUnavailable,
	errs.ErrLedgerUnavailable,
	errs.ErrSubmissionRejected,
}

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Success: false, Error: msg})
}

// stageErrorResponse reports a failed pipeline run: validation problems as 400, the
// rest as 500 with the failing stage and error kind.
func stageErrorResponse(ctx *fiber.Ctx, err error) error {
	kind := errs.Classify(err)
	if kind == errs.KindValidation {
		return errorResponse(ctx, http.StatusBadRequest, validationMessage(err))
	}

	resp := response.StageError{
		Success:   false,
		Error:     cause(err),
		Stage:     _intakeStage,
		ErrorKind: string(kind),
		Retryable: kind.Retryable(),
	}

	var se *pipeline.StageError
	if errors.As(err, &se) {
		resp.Stage = string(se.Stage)
	}

	var amb *errs.AmbiguousSubmissionError
	if errors.As(err, &amb) {
		resp.TransactionHash = amb.TxHash
		resp.Error = fmt.Sprintf("%s; query transaction %s on the ledger before retrying", resp.Error, amb.TxHash)
	}

	return ctx.Status(http.StatusInternalServerError).JSON(resp)
}

func cause(err error) string {
	for _, c := range _causes {
		if errors.Is(err, c) {
			return c.Error()
		}
	}

	return "internal error"
}

// validationMessage drops the call-site prefix and keeps what the caller got wrong.
func validationMessage(err error) string {
	msg := err.Error()

	marker := errs.ErrValidation.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}

	return msg
}
