package entity

import (
	"time"

	"github.com/google/uuid"
)

// AttestationRecord is the service-side trace of one pipeline run. The attestation
// itself lives on the ledger; the record only references it.
type AttestationRecord struct {
	ID uuid.UUID `json:"id"`

	State       State  `json:"state"`
	FailedStage Stage  `json:"failed_stage,omitempty"`
	Error       string `json:"error,omitempty"`

	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type,omitempty"`

	ContentID  string `json:"content_id,omitempty"`
	StorageURL string `json:"storage_url,omitempty"`

	Recipient string       `json:"recipient"`
	SchemaUID string       `json:"schema_uid"`
	Event     *EventRecord `json:"event_record,omitempty"`
	Payload   []byte       `json:"payload,omitempty"`
	// PayloadHash is the hex keccak256 of Payload.
	PayloadHash string `json:"payload_hash,omitempty"`

	Revocable  bool       `json:"revocable"`
	Expiration *time.Time `json:"expiration,omitempty"`

	TxHash         string `json:"tx_hash,omitempty"`
	Attester       string `json:"attester,omitempty"`
	Nonce          uint64 `json:"nonce,omitempty"`
	AttestationUID string `json:"attestation_uid,omitempty"`
	BlockNumber    uint64 `json:"block_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *AttestationRecord) Advance(s State) {
	r.State = s
	r.UpdatedAt = time.Now()
}

func (r *AttestationRecord) Fail(stage Stage, err error) {
	r.State = Failed
	r.FailedStage = stage
	r.Error = err.Error()
	r.UpdatedAt = time.Now()
}

func (r *AttestationRecord) Request() AttestationRequest {
	return AttestationRequest{
		SchemaUID:  r.SchemaUID,
		Recipient:  r.Recipient,
		Payload:    r.Payload,
		Revocable:  r.Revocable,
		Expiration: r.Expiration,
	}
}

// Submission rebuilds the broadcast transaction reference for ledger lookups.
func (r *AttestationRecord) Submission() Submission {
	return Submission{
		Request:  r.Request(),
		TxHash:   r.TxHash,
		Attester: r.Attester,
		Nonce:    r.Nonce,
	}
}

// MarkSubmitted remembers the broadcast transaction before inclusion is awaited.
func (r *AttestationRecord) MarkSubmitted(sub Submission) {
	r.TxHash = sub.TxHash
	r.Attester = sub.Attester
	r.Nonce = sub.Nonce
	r.Advance(Submitted)
}

func (r *AttestationRecord) Confirm(receipt AttestationReceipt) {
	r.TxHash = receipt.TxHash
	r.AttestationUID = receipt.AttestationID
	r.BlockNumber = receipt.BlockNumber
	if receipt.Attester != "" {
		r.Attester = receipt.Attester
	}
	r.FailedStage = ""
	r.Error = ""
	r.Advance(Confirmed)
}

func (r *AttestationRecord) Receipt() AttestationReceipt {
	return AttestationReceipt{
		AttestationID: r.AttestationUID,
		SchemaUID:     r.SchemaUID,
		Recipient:     r.Recipient,
		Attester:      r.Attester,
		Payload:       r.Payload,
		Revocable:     r.Revocable,
		Expiration:    r.Expiration,
		TxHash:        r.TxHash,
		BlockNumber:   r.BlockNumber,
	}
}
