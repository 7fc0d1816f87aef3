package mocks

import (
	"context"

	"career-insights/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) Create(ctx context.Context, run *models.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunStore) UpdateStatus(ctx context.Context, runID uuid.UUID, status models.Status) error {
	args := m.Called(ctx, runID, status)
	return args.Error(0)
}

func (m *MockRunStore) Complete(ctx context.Context, runID uuid.UUID, insights string) error {
	args := m.Called(ctx, runID, insights)
	return args.Error(0)
}

func (m *MockRunStore) Fail(ctx context.Context, runID uuid.UUID, errMsg string) error {
	args := m.Called(ctx, runID, errMsg)
	return args.Error(0)
}
