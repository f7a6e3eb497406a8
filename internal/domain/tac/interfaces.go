package tac

import "context"

// DatasetProvider returns the dataset bound to a viewer session.
type DatasetProvider interface {
	Dataset(ctx context.Context, sessionID string) (Dataset, error)
}
