package repository

import (
	"context"

	"github.com/rpggio/tacboard/internal/domain/tac"
)

// DatasetSource loads the TAC table from its origin.
type DatasetSource interface {
	Load(ctx context.Context) (tac.Dataset, error)
}

// ArtifactPublisher stores an exported report and returns where it went.
type ArtifactPublisher interface {
	Publish(ctx context.Context, name, contentType string, body []byte) (string, error)
}
