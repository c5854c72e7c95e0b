package mocks

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockHTTPClient stands in for the transport behind the inference clients.
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *http.Response, got %T", args.Get(0))
	}
	return resp, args.Error(1)
}

// OnPost expects a POST to url and answers it with status and a JSON body.
func (m *MockHTTPClient) OnPost(url string, status int, body string) *mock.Call {
	return m.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Method == http.MethodPost && r.URL.String() == url
	})).Return(JSONResponse(status, body), nil)
}

func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
