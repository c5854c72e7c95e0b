package response

import (
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
)

type AnonymizationOutput struct {
	ID             string              `json:"id"`
	AnonymizedText string              `json:"anonymized_text"`
	Entities       []anonymizer.Entity `json:"entities"`
	CreatedAt      time.Time           `json:"created_at"`
}

func NewAnonymizationOutput(record *store.Record) AnonymizationOutput {
	entities := record.Entities
	if entities == nil {
		entities = []anonymizer.Entity{}
	}
	return AnonymizationOutput{
		ID:             record.ID,
		AnonymizedText: record.AnonymizedText,
		Entities:       entities,
		CreatedAt:      record.CreatedAt,
	}
}
