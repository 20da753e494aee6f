package dto

import (
	"io"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
)

// UploadRequest is one validated upload handed to the attestation pipeline.
type UploadRequest struct {
	Data         io.Reader
	OriginalName string
	Coordinates  entity.Coordinates
	Recipient    string
}
