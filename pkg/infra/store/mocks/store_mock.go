package mocks

import (
	"context"

	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/store"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, record *store.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, id string) (*store.Record, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*store.Record)
	return record, args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
