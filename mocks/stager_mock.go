package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStager struct {
	mock.Mock
}

func (m *MockStager) Stage(ctx context.Context, fileName string, content io.Reader) (string, error) {
	args := m.Called(ctx, fileName, content)

	return args.String(0), args.Error(1)
}
