package httpx

import "net/http"

// Client is the minimal surface the inference clients need from an HTTP
// transport. Both *http.Client and *FastHTTPClient satisfy it.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
