package anonymizer

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

type mockTokenClassifier struct {
	mock.Mock
}

func (m *mockTokenClassifier) Classify(ctx context.Context, text string) ([]TokenPrediction, error) {
	args := m.Called(ctx, text)
	preds, _ := args.Get(0).([]TokenPrediction)
	return preds, args.Error(1)
}

type stubMatcher struct {
	name   string
	labels []string
	spans  []Span
	err    error
}

func (s *stubMatcher) Name() string {
	return s.name
}

func (s *stubMatcher) Labels() []string {
	return s.labels
}

func (s *stubMatcher) Match(_ context.Context, _ string) ([]Span, error) {
	return s.spans, s.err
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
