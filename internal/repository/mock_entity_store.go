package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-life-planner/internal/model"
)

type MockEntityStore struct {
	mock.Mock
}

func (m *MockEntityStore) Get(ctx context.Context, collection string, ownerID string, id string) (model.Document, error) {
	args := m.Called(ctx, collection, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *MockEntityStore) GetForUpdate(ctx context.Context, collection string, ownerID string, id string) (model.Document, error) {
	args := m.Called(ctx, collection, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *MockEntityStore) Exists(ctx context.Context, collection string, ownerID string, id string) (bool, error) {
	args := m.Called(ctx, collection, ownerID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntityStore) List(ctx context.Context, collection string, ownerID string) ([]model.Document, error) {
	args := m.Called(ctx, collection, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockEntityStore) Insert(ctx context.Context, collection string, ownerID string, doc model.Document) error {
	args := m.Called(ctx, collection, ownerID, doc)
	return args.Error(0)
}

func (m *MockEntityStore) Delete(ctx context.Context, collection string, ownerID string, id string) error {
	args := m.Called(ctx, collection, ownerID, id)
	return args.Error(0)
}
