package mocks

import (
	"context"

	"career-insights/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt models.Prompt) ([]string, error) {
	args := m.Called(ctx, prompt)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}
