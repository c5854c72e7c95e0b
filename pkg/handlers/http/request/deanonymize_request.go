package request

import (
	"fmt"
	"strings"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/google/uuid"
)

// DeanonymizeRequest reverses an anonymization either from the entity list
// returned by /anonymize or from a stored anonymization_id. With neither, the
// text is returned unchanged.
type DeanonymizeRequest struct {
	Text            *string              `json:"text"`
	Entities        *[]anonymizer.Entity `json:"entities,omitempty"`
	AnonymizationID string               `json:"anonymization_id,omitempty"`
}

func (r *DeanonymizeRequest) Validate() error {
	if r.Text == nil {
		return ErrTextRequired
	}
	r.AnonymizationID = strings.TrimSpace(r.AnonymizationID)
	if r.AnonymizationID == "" {
		return nil
	}
	if r.Entities != nil {
		return ErrAmbiguousReversal
	}
	if err := uuid.Validate(r.AnonymizationID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnonymizationID, err)
	}
	return nil
}

func (r *DeanonymizeRequest) EntityList() []anonymizer.Entity {
	if r.Entities == nil {
		return nil
	}
	return *r.Entities
}
