package mocks

import (
	"context"

	"career-insights/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, doc models.Document) ([]models.Page, error) {
	args := m.Called(ctx, doc)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Page), args.Error(1)
}
