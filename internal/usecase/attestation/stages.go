package attestation

import (
	"context"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase/pipeline"
	"github.com/andreyxaxa/Event-Attestor/pkg/easschema"
)

func (uc *AttestationUseCase) storeStage(record *entity.AttestationRecord) pipeline.Stage[[]byte, entity.StoredContentRef] {
	return pipeline.New(entity.StageStore, uc.settings.StoreTimeout,
		func(ctx context.Context, blob []byte) (entity.StoredContentRef, error) {
			return uc.content.Store(ctx, blob, record.OriginalName, record.ContentType)
		})
}

func (uc *AttestationUseCase) describeStage() pipeline.Stage[string, string] {
	return pipeline.New(entity.StageDescribe, uc.settings.DescribeTimeout, uc.describer.Describe)
}

func (uc *AttestationUseCase) parseStage(coordinates entity.Coordinates) pipeline.Stage[string, entity.EventRecord] {
	return pipeline.Pure(entity.StageParse, func(text string) entity.EventRecord {
		return uc.parser.Parse(text, coordinates)
	})
}

func (uc *AttestationUseCase) encodeStage() pipeline.Stage[entity.EventRecord, []byte] {
	return pipeline.New(entity.StageEncode, 0, func(_ context.Context, event entity.EventRecord) ([]byte, error) {
		return uc.encoder.Encode(uc.schemaUID, eventFields(event))
	})
}

func (uc *AttestationUseCase) broadcastStage() pipeline.Stage[entity.AttestationRequest, entity.Submission] {
	return pipeline.New(entity.StageSubmit, uc.settings.BroadcastTimeout, uc.ledger.Broadcast)
}

func (uc *AttestationUseCase) confirmStage() pipeline.Stage[entity.Submission, entity.AttestationReceipt] {
	return pipeline.New(entity.StageConfirm, uc.settings.ConfirmTimeout, uc.ledger.AwaitConfirmation)
}

// eventFields lays the record out in entity.EventSchema order.
func eventFields(e entity.EventRecord) []easschema.Field {
	return []easschema.Field{
		{Name: "eventName", Type: "string", Value: e.EventName},
		{Name: "eventDescription", Type: "string", Value: e.EventDescription},
		{Name: "occasion", Type: "string", Value: e.Occasion},
		{Name: "locationCoordinates", Type: "string[]", Value: []string{e.LocationCoordinates.Lat(), e.LocationCoordinates.Lon()}},
		{Name: "memoryDescription", Type: "string", Value: e.MemoryDescription},
	}
}
