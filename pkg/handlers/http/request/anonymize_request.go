package request

import "errors"

var (
	ErrTextRequired           = errors.New("text is required")
	ErrAmbiguousReversal      = errors.New("entities and anonymization_id are mutually exclusive")
	ErrInvalidAnonymizationID = errors.New("anonymization_id must be a valid UUID")
)

type AnonymizeRequest struct {
	Text *string `json:"text"`
}

// Validate accepts an empty string, only a missing or non-string text is rejected.
func (r *AnonymizeRequest) Validate() error {
	if r.Text == nil {
		return ErrTextRequired
	}
	return nil
}
