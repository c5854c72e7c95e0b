// Package ner talks to a token-classification inference endpoint (a Hugging
// Face style "inputs" API) and exposes it as an anonymizer.TokenClassifier.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/httpx"
	"github.com/NeuralTrust/PrivacyGuard/pkg/version"
	"github.com/sirupsen/logrus"
)

const DefaultModel = "EvanD/xlm-roberta-base-romanian-ner-ronec"

var (
	ErrInferenceFailed = errors.New("ner inference failed")
	ErrEmptyEndpoint   = errors.New("ner endpoint is empty")
)

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// Client is a TokenClassifier backed by a remote model. Grouping happens in
// the model matcher, so the endpoint is always asked for raw token tags.
type Client struct {
	client         httpx.Client
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	url            string
	apiKey         string
	model          string
	available      atomic.Bool
}

type Option func(*Client)

func WithHTTPClient(client httpx.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

func WithCircuitBreaker(breaker httpx.CircuitBreaker) Option {
	return func(c *Client) {
		if breaker != nil {
			c.circuitBreaker = breaker
		}
	}
}

func NewClient(cfg Config, logger *logrus.Logger, opts ...Option) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		client:         &http.Client{Timeout: 30 * time.Second},
		logger:         logger,
		circuitBreaker: httpx.NewCircuitBreaker("ner", httpx.DefaultBreakerTimeout, httpx.DefaultBreakerMaxFailures),
		url:            resolveURL(endpoint, model),
		apiKey:         cfg.APIKey,
		model:          model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveURL appends the model name to endpoints of the form ".../models/".
func resolveURL(endpoint, model string) string {
	if strings.HasSuffix(endpoint, "/models/") {
		return endpoint + model
	}
	return endpoint
}

func (c *Client) URL() string {
	return c.url
}

func (c *Client) Model() string {
	return c.model
}

// Available reports whether the most recent inference call succeeded.
func (c *Client) Available() bool {
	return c.available.Load()
}

// Probe sends a short text through the model and records the outcome.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Classify(ctx, "Ion Popescu")
	return err
}

func (c *Client) Classify(ctx context.Context, text string) ([]anonymizer.TokenPrediction, error) {
	var (
		result []anonymizer.TokenPrediction
		err    error
	)
	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeRequest(ctx, text)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.available.Store(false)
			c.logger.WithError(err).Error("ner inference failed (circuit breaker)")
		}
		return nil, err
	}
	c.available.Store(true)
	return result, nil
}

func (c *Client) executeRequest(ctx context.Context, text string) ([]anonymizer.TokenPrediction, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs:     text,
		Parameters: inferenceParameters{AggregationStrategy: "none"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ner endpoint: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ner response read error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"model":       c.model,
		}).Error("ner endpoint returned non-2xx status")
		return nil, fmt.Errorf("%w: status %d", ErrInferenceFailed, resp.StatusCode)
	}
	return parsePredictions(text, payload)
}
