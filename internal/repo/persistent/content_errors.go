package persistent

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
)

// storageStatusError maps a provider HTTP status to the storage error it stands for.
// Auth failures count as unavailable: the credential is ours, the content is not at fault.
func storageStatusError(code int) error {
	switch {
	case code == http.StatusUnauthorized,
		code == http.StatusForbidden,
		code == http.StatusRequestTimeout,
		code == http.StatusTooManyRequests,
		code >= http.StatusInternalServerError:
		return errs.ErrStorageUnavailable
	case code >= http.StatusBadRequest:
		return errs.ErrStorageRejected
	default:
		return errs.ErrStorageUnavailable
	}
}

func mapS3Error(err error) error {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return fmt.Errorf("%w: %v", storageStatusError(re.HTTPStatusCode()), err)
	}

	// transport failure or deadline, nothing was accepted
	return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
}
