package httpx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHTTPClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Seen-User-Agent", r.Header.Get("User-Agent"))
		w.Header().Set("X-Seen-Accept-Encoding", r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	client := NewFastHTTPClient(WithTimeout(5*time.Second), WithUserAgent("PrivacyGuard/test"))
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, strings.NewReader(`{"inputs":"Ion"}`))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"inputs":"Ion"}`, string(body))
	assert.Equal(t, "PrivacyGuard/test", resp.Header.Get("X-Seen-User-Agent"))
	assert.Equal(t, acceptedEncodings, resp.Header.Get("X-Seen-Accept-Encoding"))
}

func TestFastHTTPClient_DecodesCompressedResponses(t *testing.T) {
	payload := []byte(`[{"entity":"B-PERSON","start":0,"end":3}]`)
	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "gzip", encoding: "gzip", body: gzipCompress(payload)},
		{name: "brotli", encoding: "br", body: brCompress(payload)},
		{name: "zstd", encoding: "zstd", body: zstdCompress(payload)},
		{name: "identity", encoding: "", body: payload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			require.NoError(t, err)
			resp, err := NewFastHTTPClient().Do(req)
			require.NoError(t, err)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, payload, body)
			assert.Empty(t, resp.Header.Get("Content-Encoding"))
			assert.Equal(t, int64(len(payload)), resp.ContentLength)
		})
	}
}

func TestFastHTTPClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:1", nil)
	require.NoError(t, err)
	_, err = NewFastHTTPClient().Do(req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFastHTTPClient_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = NewFastHTTPClient(WithTimeout(10 * time.Second)).Do(req)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
