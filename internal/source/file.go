package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/repository"
)

// FileSource reads the table from a local CSV file.
type FileSource struct {
	Path      string
	Normalize bool
}

// Load reads and parses the file.
func (s FileSource) Load(_ context.Context) (tac.Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return tac.Dataset{}, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	defer f.Close()

	records, err := Parse(f, ParseOptions{Normalize: s.Normalize})
	if err != nil {
		return tac.Dataset{}, err
	}
	return tac.Dataset{Records: records, Source: s.Path, LoadedAt: time.Now()}, nil
}
