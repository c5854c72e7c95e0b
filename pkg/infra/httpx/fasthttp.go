package httpx

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 64
	DefaultMaxIdleConnDuration = 30 * time.Second
	DefaultMaxResponseBodySize = 16 * 1024 * 1024

	acceptedEncodings = "gzip, br, zstd"
)

type fastHTTPOptions struct {
	timeout             time.Duration
	maxConnsPerHost     int
	maxResponseBodySize int
	insecureSkipVerify  bool
	userAgent           string
}

type FastHTTPClientOption func(*fastHTTPOptions)

// WithTimeout bounds requests whose context carries no earlier deadline.
func WithTimeout(timeout time.Duration) FastHTTPClientOption {
	return func(o *fastHTTPOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithMaxConnsPerHost(max int) FastHTTPClientOption {
	return func(o *fastHTTPOptions) {
		if max > 0 {
			o.maxConnsPerHost = max
		}
	}
}

func WithMaxResponseBodySize(size int) FastHTTPClientOption {
	return func(o *fastHTTPOptions) {
		if size > 0 {
			o.maxResponseBodySize = size
		}
	}
}

// WithInsecureSkipVerify is meant for self-signed inference endpoints in
// development clusters.
func WithInsecureSkipVerify(skip bool) FastHTTPClientOption {
	return func(o *fastHTTPOptions) {
		o.insecureSkipVerify = skip
	}
}

func WithUserAgent(userAgent string) FastHTTPClientOption {
	return func(o *fastHTTPOptions) {
		o.userAgent = userAgent
	}
}

// FastHTTPClient adapts a pooled fasthttp.Client to the net/http Client
// interface used by the NER inference client. Compressed responses are
// decoded before they are handed back.
type FastHTTPClient struct {
	client       *fasthttp.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int
}

func NewFastHTTPClient(opts ...FastHTTPClientOption) Client {
	options := &fastHTTPOptions{
		timeout:             DefaultTimeout,
		maxConnsPerHost:     DefaultMaxConnsPerHost,
		maxResponseBodySize: DefaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(options)
	}

	client := &fasthttp.Client{
		MaxConnsPerHost:     options.maxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		MaxResponseBodySize: options.maxResponseBodySize,
		ReadTimeout:         options.timeout,
		WriteTimeout:        options.timeout,
	}
	if options.insecureSkipVerify {
		client.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // opt-in for dev endpoints
		}
	}

	return &FastHTTPClient{
		client:       client,
		timeout:      options.timeout,
		userAgent:    options.userAgent,
		maxBodyBytes: options.maxResponseBodySize,
	}
}

func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	fastReq.SetRequestURI(req.URL.String())
	fastReq.Header.SetMethod(req.Method)
	if req.Host != "" {
		fastReq.Header.SetHost(req.Host)
	}
	for key, values := range req.Header {
		if len(values) == 1 {
			fastReq.Header.Set(key, values[0])
			continue
		}
		for _, value := range values {
			fastReq.Header.Add(key, value)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		fastReq.Header.SetUserAgent(c.userAgent)
	}
	if req.Header.Get("Accept-Encoding") == "" {
		fastReq.Header.Set("Accept-Encoding", acceptedEncodings)
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		fastReq.SetBodyRaw(body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := req.Context().Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.client.DoDeadline(fastReq, fastResp, deadline); err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	// fastResp.Body() is reused once fastResp is released.
	body := append([]byte(nil), fastResp.Body()...)

	headers := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})

	decoded, changed, err := DecodeBody(headers.Get("Content-Encoding"), body, c.maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if changed {
		headers.Del("Content-Encoding")
		headers.Del("Content-Length")
	}

	statusCode := fastResp.StatusCode()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        headers,
		Body:          io.NopCloser(bytes.NewReader(decoded)),
		ContentLength: int64(len(decoded)),
		Request:       req,
	}, nil
}
