package entity

import "time"

type AttestationRequest struct {
	SchemaUID  string
	Recipient  string
	Payload    []byte
	Revocable  bool
	Expiration *time.Time
}

// Submission is a signed attestation transaction that has been handed to the ledger.
type Submission struct {
	Request  AttestationRequest
	TxHash   string
	Attester string
	Nonce    uint64
}

// AttestationReceipt is the ledger-confirmed attestation.
type AttestationReceipt struct {
	AttestationID string     `json:"attestation_id"`
	SchemaUID     string     `json:"schema_uid"`
	Recipient     string     `json:"recipient"`
	Attester      string     `json:"attester"`
	Payload       []byte     `json:"payload"`
	Revocable     bool       `json:"revocable"`
	Expiration    *time.Time `json:"expiration,omitempty"`
	TxHash        string     `json:"tx_hash"`
	BlockNumber   uint64     `json:"block_number"`
}

type AttestationResult struct {
	Record  *AttestationRecord
	Content StoredContentRef
	Event   EventRecord
	Receipt AttestationReceipt
	// Deduplicated is set when an earlier confirmed attestation of the same content
	// for the same recipient was returned instead of submitting a new one.
	Deduplicated bool
}
