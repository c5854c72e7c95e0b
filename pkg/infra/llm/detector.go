// Package llm detects PII with an OpenAI-compatible chat completion model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
)

const (
	Source = "llm"

	DefaultModel       = "gpt-4o-mini"
	DefaultMaxAttempts = 5
	DefaultBaseBackoff = time.Second
	DefaultMaxBackoff  = 30 * time.Second
)

var (
	ErrRateLimited     = errors.New("llm rate limited")
	ErrInvalidResponse = errors.New("invalid llm response")
)

var DefaultLabels = []string{"PERSON", "ORG", "ADDRESS", "EMAIL", "PHONE", "IBAN", "CNP", "ID_CARD"}

const systemPrompt = `You find personally identifiable information in text.
Answer with a JSON array only, no prose. Each item is {"text": "<exact substring of the input>", "label": "<LABEL>"}.
Allowed labels: %s.
Return [] when the text contains no PII.`

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Labels      []string
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Detector is an anonymizer.Matcher. Only HTTP 429 is retried; any other
// failure is returned at once and the collector continues without its spans.
type Detector struct {
	client      openai.Client
	logger      *logrus.Logger
	model       string
	labels      []string
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func NewDetector(cfg Config, logger *logrus.Logger, opts ...option.RequestOption) *Detector {
	// SDK retries are disabled, 429 handling lives in detect.
	clientOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	d := &Detector{
		client:      openai.NewClient(clientOpts...),
		logger:      logger,
		model:       cfg.Model,
		labels:      cfg.Labels,
		maxAttempts: cfg.MaxAttempts,
		baseBackoff: cfg.BaseBackoff,
		maxBackoff:  cfg.MaxBackoff,
	}
	if d.model == "" {
		d.model = DefaultModel
	}
	if len(d.labels) == 0 {
		d.labels = DefaultLabels
	}
	if d.maxAttempts <= 0 {
		d.maxAttempts = DefaultMaxAttempts
	}
	if d.baseBackoff <= 0 {
		d.baseBackoff = DefaultBaseBackoff
	}
	if d.maxBackoff <= 0 {
		d.maxBackoff = DefaultMaxBackoff
	}
	return d
}

func (d *Detector) Name() string {
	return Source
}

func (d *Detector) Labels() []string {
	return d.labels
}

func (d *Detector) Match(ctx context.Context, text string) ([]anonymizer.Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	content, err := d.detect(ctx, text)
	if err != nil {
		return nil, err
	}
	items, err := parseItems(content)
	if err != nil {
		return nil, err
	}
	return locate(text, items), nil
}

func (d *Detector) detect(ctx context.Context, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: d.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(systemPrompt, strings.Join(d.labels, ", "))),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	}

	for attempt := 1; ; attempt++ {
		resp, err := d.client.Chat.Completions.New(ctx, params)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
			}
			return resp.Choices[0].Message.Content, nil
		}

		var apiErr *openai.Error
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
			return "", fmt.Errorf("llm request failed: %w", err)
		}
		if attempt >= d.maxAttempts {
			return "", fmt.Errorf("%w after %d attempts", ErrRateLimited, attempt)
		}

		wait := d.backoff(attempt, apiErr.Response)
		d.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait.String(),
			"model":   d.model,
		}).Warn("llm rate limited, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff is base*2^(attempt-1) capped at maxBackoff. A Retry-After header in
// seconds takes precedence, still capped.
func (d *Detector) backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After"))); err == nil && secs >= 0 {
			return min(time.Duration(secs)*time.Second, d.maxBackoff)
		}
	}
	wait := d.baseBackoff
	for i := 1; i < attempt && wait < d.maxBackoff; i++ {
		wait *= 2
	}
	return min(wait, d.maxBackoff)
}
