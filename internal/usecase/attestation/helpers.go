package attestation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/google/uuid"
)

func (uc *AttestationUseCase) createOutboxEvent(record *entity.AttestationRecord, eventType string) (*entity.OutboxEvent, error) {
	payload := map[string]interface{}{
		"id":              record.ID,
		"state":           record.State,
		"content_id":      record.ContentID,
		"storage_url":     record.StorageURL,
		"recipient":       record.Recipient,
		"schema_uid":      record.SchemaUID,
		"tx_hash":         record.TxHash,
		"attestation_uid": record.AttestationUID,
		"block_number":    record.BlockNumber,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AttestationUseCase - createOutboxEvent - json.Marshal: %w", err)
	}

	return &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: record.ID,
		Type:        eventType,
		Payload:     b,
		Status:      entity.OutboxPending,
		CreatedAt:   time.Now(),
		RetryCount:  0,
	}, nil
}
