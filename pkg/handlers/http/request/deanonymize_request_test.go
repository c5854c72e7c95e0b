package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymizeRequest_Validate(t *testing.T) {
	var req AnonymizeRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.ErrorIs(t, req.Validate(), ErrTextRequired)

	require.NoError(t, json.Unmarshal([]byte(`{"text":""}`), &req))
	assert.NoError(t, req.Validate())
}

func TestDeanonymizeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "legacy text only", body: `{"text":"[EMAIL_1]"}`},
		{name: "with entities", body: `{"text":"[EMAIL_1]","entities":[{"start":0,"end":7,"text":"a@b.com","label":"EMAIL","replacement":"[EMAIL_1]","anon_start":0,"anon_end":9}]}`},
		{name: "with id", body: `{"text":"x","anonymization_id":"5b0c1f4e-2f1f-4bb4-9a55-3b1d1b7f8a10"}`},
		{name: "missing text", body: `{"entities":[]}`, wantErr: ErrTextRequired},
		{name: "null text", body: `{"text":null}`, wantErr: ErrTextRequired},
		{name: "both entities and id", body: `{"text":"x","entities":[],"anonymization_id":"5b0c1f4e-2f1f-4bb4-9a55-3b1d1b7f8a10"}`, wantErr: ErrAmbiguousReversal},
		{name: "bad id", body: `{"text":"x","anonymization_id":"not-a-uuid"}`, wantErr: ErrInvalidAnonymizationID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req DeanonymizeRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			err := req.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDeanonymizeRequest_EntityList(t *testing.T) {
	var req DeanonymizeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"text":"x"}`), &req))
	assert.Nil(t, req.EntityList())

	require.NoError(t, json.Unmarshal([]byte(`{"text":"x","entities":[{"label":"EMAIL"}]}`), &req))
	require.Len(t, req.EntityList(), 1)
	assert.Equal(t, "EMAIL", req.EntityList()[0].Label)
}
