package mocks

import (
	"context"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/stretchr/testify/mock"
)

// DatasetSource is a mock for repository.DatasetSource.
type DatasetSource struct {
	mock.Mock
}

func (m *DatasetSource) Load(ctx context.Context) (tac.Dataset, error) {
	args := m.Called(ctx)
	if ds, ok := args.Get(0).(tac.Dataset); ok {
		return ds, args.Error(1)
	}
	return tac.Dataset{}, args.Error(1)
}

// ArtifactPublisher is a mock for repository.ArtifactPublisher.
type ArtifactPublisher struct {
	mock.Mock
}

func (m *ArtifactPublisher) Publish(ctx context.Context, name, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, name, contentType, body)
	return args.String(0), args.Error(1)
}
