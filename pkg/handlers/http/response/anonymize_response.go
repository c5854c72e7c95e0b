package response

import (
	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
)

type AnonymizeResponse struct {
	AnonymizedText  string              `json:"anonymized_text"`
	Entities        []anonymizer.Entity `json:"entities"`
	AnonymizationID string              `json:"anonymization_id,omitempty"`
}

type DeanonymizeResponse struct {
	OriginalText string `json:"original_text"`
}

type EntitiesResponse struct {
	PlaceholderMode string                 `json:"placeholder_mode"`
	Entities        []anonymizer.LabelInfo `json:"entities"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
