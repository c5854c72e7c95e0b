package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
	storeMocks "github.com/NeuralTrust/PrivacyGuard/pkg/infra/store/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func contactEntities() []anonymizer.Entity {
	return []anonymizer.Entity{
		{Start: 14, End: 21, Text: "a@b.com", Label: "EMAIL", Replacement: "[EMAIL_1]", AnonStart: 14, AnonEnd: 23},
		{Start: 25, End: 37, Text: "+40712345678", Label: "PHONE", Replacement: "[PHONE_1]", AnonStart: 27, AnonEnd: 36},
	}
}

func newDeanonymizeApp(a *anonymizer.Anonymizer, s store.Store) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/deanonymize", NewDeanonymizeHandler(newTestLogger(), a, s).Handle)
	return app
}

func TestDeanonymizeHandler_WithEntities(t *testing.T) {
	app := newDeanonymizeApp(newTestAnonymizer(), nil)

	status, body := postJSON(t, app, "/api/v1/deanonymize", map[string]interface{}{
		"text":     "Contact me at [EMAIL_1] or [PHONE_1]",
		"entities": contactEntities(),
	})
	require.Equal(t, fiber.StatusOK, status)

	var resp response.DeanonymizeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, contactText, resp.OriginalText)
}

func TestDeanonymizeHandler_TextOnly(t *testing.T) {
	app := newDeanonymizeApp(newTestAnonymizer(), nil)

	status, body := postJSON(t, app, "/api/v1/deanonymize", `{"text": "hello [PERSON_1]"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"original_text": "hello [PERSON_1]"}`, string(body))
}

func TestDeanonymizeHandler_Strict(t *testing.T) {
	app := newDeanonymizeApp(newTestAnonymizer(anonymizer.WithStrictDeanonymize(true)), nil)

	status, body := postJSON(t, app, "/api/v1/deanonymize", map[string]interface{}{
		"text":     "[EMAIL_1] and [IBAN_1]",
		"entities": contactEntities()[:1],
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, string(body), "[IBAN_1]")
}

func TestDeanonymizeHandler_ByID(t *testing.T) {
	id := uuid.NewString()
	s := new(storeMocks.MockStore)
	s.On("Get", mock.Anything, id).Return(&store.Record{
		ID:             id,
		AnonymizedText: "Contact me at [EMAIL_1] or [PHONE_1]",
		Entities:       contactEntities(),
		CreatedAt:      time.Now(),
	}, nil)

	app := newDeanonymizeApp(newTestAnonymizer(), s)
	status, body := postJSON(t, app, "/api/v1/deanonymize", map[string]string{
		"text":             "Reply to [EMAIL_1]",
		"anonymization_id": id,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"original_text": "Reply to a@b.com"}`, string(body))
	s.AssertExpectations(t)
}

func TestDeanonymizeHandler_Errors(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name       string
		setupStore func() store.Store
		body       interface{}
		wantStatus int
	}{
		{
			name:       "missing text",
			setupStore: func() store.Store { return nil },
			body:       map[string]interface{}{"entities": contactEntities()},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "entities and id together",
			setupStore: func() store.Store { return nil },
			body: map[string]interface{}{
				"text":             "x",
				"entities":         contactEntities(),
				"anonymization_id": id,
			},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "malformed id",
			setupStore: func() store.Store { return new(storeMocks.MockStore) },
			body:       map[string]string{"text": "x", "anonymization_id": "not-a-uuid"},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "store not configured",
			setupStore: func() store.Store { return nil },
			body:       map[string]string{"text": "x", "anonymization_id": id},
			wantStatus: fiber.StatusNotImplemented,
		},
		{
			name: "unknown id",
			setupStore: func() store.Store {
				s := new(storeMocks.MockStore)
				s.On("Get", mock.Anything, id).Return(nil, store.ErrNotFound)
				return s
			},
			body:       map[string]string{"text": "x", "anonymization_id": id},
			wantStatus: fiber.StatusNotFound,
		},
		{
			name: "store failure",
			setupStore: func() store.Store {
				s := new(storeMocks.MockStore)
				s.On("Get", mock.Anything, id).Return(nil, errors.New("connection reset"))
				return s
			},
			body:       map[string]string{"text": "x", "anonymization_id": id},
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newDeanonymizeApp(newTestAnonymizer(), tt.setupStore())
			status, _ := postJSON(t, app, "/api/v1/deanonymize", tt.body)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestGetAnonymizationHandler(t *testing.T) {
	id := uuid.NewString()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s := new(storeMocks.MockStore)
	s.On("Get", mock.Anything, id).Return(&store.Record{
		ID:             id,
		AnonymizedText: "Contact me at [EMAIL_1] or [PHONE_1]",
		Entities:       contactEntities(),
		CreatedAt:      created,
	}, nil)
	missing := uuid.NewString()
	s.On("Get", mock.Anything, missing).Return(nil, store.ErrNotFound)

	app := fiber.New()
	app.Get("/api/v1/anonymizations/:id", NewGetAnonymizationHandler(newTestLogger(), s).Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/anonymizations/"+id, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out response.AnonymizationOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, id, out.ID)
	assert.Len(t, out.Entities, 2)
	assert.True(t, created.Equal(out.CreatedAt))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/anonymizations/"+missing, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/anonymizations/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	s.AssertExpectations(t)
}

func TestGetAnonymizationHandler_NoStore(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/anonymizations/:id", NewGetAnonymizationHandler(newTestLogger(), nil).Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/anonymizations/"+uuid.NewString(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
}

func TestDeleteAnonymizationHandler(t *testing.T) {
	id := uuid.NewString()
	missing := uuid.NewString()
	s := new(storeMocks.MockStore)
	s.On("Delete", mock.Anything, id).Return(nil).Once()
	s.On("Delete", mock.Anything, missing).Return(store.ErrNotFound)

	app := fiber.New()
	app.Delete("/api/v1/anonymizations/:id", NewDeleteAnonymizationHandler(newTestLogger(), s).Handle)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/anonymizations/"+id, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/anonymizations/"+missing, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/anonymizations/bad", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	noStore := fiber.New()
	noStore.Delete("/api/v1/anonymizations/:id", NewDeleteAnonymizationHandler(newTestLogger(), nil).Handle)
	resp, err = noStore.Test(httptest.NewRequest("DELETE", "/api/v1/anonymizations/"+id, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)

	s.AssertExpectations(t)
}
