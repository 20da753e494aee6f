package response

import (
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type EventRecord struct {
	EventName           string   `json:"eventName"`
	EventDescription    string   `json:"eventDescription"`
	Occasion            string   `json:"occasion"`
	LocationCoordinates []string `json:"locationCoordinates"`
	MemoryDescription   string   `json:"memoryDescription"`
}

func NewEventRecord(e entity.EventRecord) EventRecord {
	return EventRecord{
		EventName:           e.EventName,
		EventDescription:    e.EventDescription,
		Occasion:            e.Occasion,
		LocationCoordinates: []string{e.LocationCoordinates.Lat(), e.LocationCoordinates.Lon()},
		MemoryDescription:   e.MemoryDescription,
	}
}

type Attestation struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	StorageURL      string      `json:"storageUrl"`
	EventRecord     EventRecord `json:"eventRecord"`
	AttestationID   string      `json:"attestationId"`
	TransactionHash string      `json:"transactionHash"`
	RecordID        string      `json:"recordId"`
	Deduplicated    bool        `json:"deduplicated"`
}

func NewAttestation(res *entity.AttestationResult) Attestation {
	msg := "Image uploaded and event attested"
	if res.Deduplicated {
		msg = "Image already attested for this recipient, returning the existing attestation"
	}

	return Attestation{
		Success:         true,
		Message:         msg,
		StorageURL:      res.Content.RetrievalURL,
		EventRecord:     NewEventRecord(res.Event),
		AttestationID:   res.Receipt.AttestationID,
		TransactionHash: res.Receipt.TxHash,
		RecordID:        res.Record.ID.String(),
		Deduplicated:    res.Deduplicated,
	}
}

type Record struct {
	Success         bool         `json:"success"`
	ID              string       `json:"id"`
	State           string       `json:"state"`
	FailedStage     string       `json:"failedStage,omitempty"`
	Error           string       `json:"error,omitempty"`
	OriginalName    string       `json:"originalName"`
	ContentType     string       `json:"contentType,omitempty"`
	ContentID       string       `json:"contentId,omitempty"`
	StorageURL      string       `json:"storageUrl,omitempty"`
	Recipient       string       `json:"recipient"`
	SchemaUID       string       `json:"schemaUid"`
	EventRecord     *EventRecord `json:"eventRecord,omitempty"`
	Payload         string       `json:"payload,omitempty"`
	Revocable       bool         `json:"revocable"`
	Expiration      string       `json:"expiration,omitempty"`
	TransactionHash string       `json:"transactionHash,omitempty"`
	Attester        string       `json:"attester,omitempty"`
	AttestationID   string       `json:"attestationId,omitempty"`
	BlockNumber     uint64       `json:"blockNumber,omitempty"`
	CreatedAt       string       `json:"createdAt"`
	UpdatedAt       string       `json:"updatedAt"`
}

func NewRecord(r *entity.AttestationRecord) Record {
	resp := Record{
		Success:         true,
		ID:              r.ID.String(),
		State:           string(r.State),
		FailedStage:     string(r.FailedStage),
		Error:           r.Error,
		OriginalName:    r.OriginalName,
		ContentType:     r.ContentType,
		ContentID:       r.ContentID,
		StorageURL:      r.StorageURL,
		Recipient:       r.Recipient,
		SchemaUID:       r.SchemaUID,
		Revocable:       r.Revocable,
		TransactionHash: r.TxHash,
		Attester:        r.Attester,
		AttestationID:   r.AttestationUID,
		BlockNumber:     r.BlockNumber,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}

	if r.Event != nil {
		e := NewEventRecord(*r.Event)
		resp.EventRecord = &e
	}
	if len(r.Payload) > 0 {
		resp.Payload = hexutil.Encode(r.Payload)
	}
	if r.Expiration != nil {
		resp.Expiration = r.Expiration.Format(time.RFC3339)
	}

	return resp
}
