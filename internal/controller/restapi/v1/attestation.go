package v1

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/andreyxaxa/Event-Attestor/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Event-Attestor/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Event-Attestor/internal/dto"
	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// @Summary  	Upload image and attest its event
// @Description Stores the image on IPFS, extracts the event it shows, attests the event on EAS for the recipient
// @Tags 		attestations
// @Accept 		mpfd
// @Produce 	json
// @Param 		image 	    formData file   true "Image file(jpg, png, gif, webp)"
// @Param 		coordinates formData string true "JSON pair [lat, lon], e.g. [\"12.97\",\"77.59\"]"
// @Param 		recipient   formData string true "Recipient account(0x address)"
// @Success 	200 {object} response.Attestation
// @Failure 	400 {object} response.Error "Missing or malformed input"
// @Failure 	500 {object} response.StageError "Stage failure, errorKind=ambiguous_submission carries transactionHash"
// @Router 		/v1/upload [post]
func (r *V1) upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("image")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "image is required")
	}

	// 1. Size
	if file.Size == 0 {
		return errorResponse(ctx, http.StatusBadRequest, "image is empty")
	}

	if file.Size > validate.MaxFileSize {
		return errorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("image size cant be more than %d bytes", validate.MaxFileSize))
	}

	// 2. Content type, when the client sent a specific one
	contentType := file.Header.Get(fiber.HeaderContentType)
	if contentType != "" && contentType != fiber.MIMEOctetStream && !validate.AllowedContentTypes[contentType] {
		return errorResponse(ctx, http.StatusBadRequest, "unsupported image type. Allowed: jpeg, png, gif, webp")
	}

	// 3. Extension
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !validate.AllowedExtensions[ext] {
		return errorResponse(ctx, http.StatusBadRequest, "unsupported image extension. Allowed: .jpg, .jpeg, .png, .gif, .webp")
	}

	// 4. Coordinates
	rawCoordinates := ctx.FormValue("coordinates")
	if rawCoordinates == "" {
		return errorResponse(ctx, http.StatusBadRequest, "coordinates are required")
	}

	coordinates, err := validate.Coordinates(rawCoordinates)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	// 5. Recipient
	rawRecipient := ctx.FormValue("recipient")
	if rawRecipient == "" {
		return errorResponse(ctx, http.StatusBadRequest, "recipient is required")
	}

	recipient, err := validate.Recipient(rawRecipient)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	// 6. Open
	fileReader, err := file.Open()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - upload")

		return errorResponse(ctx, http.StatusInternalServerError, "problems with opening the file")
	}
	defer fileReader.Close()

	// 7. Attest
	result, err := r.att.Attest(ctx.UserContext(), dto.UploadRequest{
		Data:         fileReader,
		OriginalName: file.Filename,
		Coordinates:  coordinates,
		Recipient:    recipient,
	})
	if err != nil {
		if errs.Classify(err) != errs.KindValidation {
			r.logger.Error(err, "restapi - v1 - upload")
		}

		return stageErrorResponse(ctx, err)
	}

	// 8. Response
	return ctx.Status(http.StatusOK).JSON(response.NewAttestation(result))
}

// @Summary 	Get attestation record
// @Description Returns the stored state of one upload by record id or transaction hash
// @Tags 		attestations
// @Produce 	json
// @Param 		id path string true "Record ID(uuid) or transaction hash(0x...)"
// @Success 	200 {object} response.Record
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Record not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/attestation/{id} [get]
func (r *V1) getAttestation(ctx *fiber.Ctx) error {
	idStr := ctx.Params("id")

	var (
		record *entity.AttestationRecord
		err    error
	)

	if id, parseErr := uuid.Parse(idStr); parseErr == nil {
		record, err = r.att.GetRecord(ctx.UserContext(), id)
	} else if txHash, ok := transactionHash(idStr); ok {
		record, err = r.att.GetRecordByTxHash(ctx.UserContext(), txHash)
	} else {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "record not found")
		}
		r.logger.Error(err, "restapi - v1 - getAttestation")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.JSON(response.NewRecord(record))
}

// @Summary 	Reconcile attestation record
// @Description Asks the ledger what happened to a submitted or ambiguous transaction and updates the record
// @Tags 		attestations
// @Produce 	json
// @Param 		id path string true "Record ID(uuid)"
// @Success 	200 {object} response.Record
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Record not found"
// @Failure 	500 {object} response.StageError "Ledger problems"
// @Router 		/v1/attestation/{id}/reconcile [post]
func (r *V1) reconcileAttestation(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	record, err := r.att.Reconcile(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "record not found")
		}
		r.logger.Error(err, "restapi - v1 - reconcileAttestation")

		return stageErrorResponse(ctx, err)
	}

	return ctx.JSON(response.NewRecord(record))
}

func transactionHash(s string) (string, bool) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return "", false
	}

	return common.BytesToHash(b).Hex(), true
}
