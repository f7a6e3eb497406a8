package session

import (
	"context"

	"github.com/rpggio/tacboard/internal/domain/tac"
)

// DatasetSource loads a fresh dataset for a new session.
type DatasetSource interface {
	Load(ctx context.Context) (tac.Dataset, error)
}
