package kafka

import "github.com/google/uuid"

// AttestationEventPayload is the part of an outbox event the controller needs.
type AttestationEventPayload struct {
	ID     uuid.UUID `json:"id"`
	State  string    `json:"state"`
	TxHash string    `json:"tx_hash"`
}
