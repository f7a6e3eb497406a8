// Package publish stores exported reports outside the process.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/tacboard/internal/config"
	"github.com/rpggio/tacboard/internal/repository"
)

// ErrNoPublisher is returned when publishing is requested but no driver is configured.
var ErrNoPublisher = errors.New("no publisher configured")

var (
	_ repository.ArtifactPublisher = (*DirPublisher)(nil)
	_ repository.ArtifactPublisher = (*S3Publisher)(nil)
)

// FromConfig builds the publisher selected by cfg.Driver.
func FromConfig(ctx context.Context, cfg config.PublishConfig) (repository.ArtifactPublisher, error) {
	switch cfg.Driver {
	case "":
		return nil, ErrNoPublisher
	case "dir":
		return NewDirPublisher(cfg.Dir)
	case "s3":
		return NewS3Publisher(ctx, S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
			PathStyle: cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown publish driver %q", cfg.Driver)
	}
}

// DirPublisher writes artifacts into a local directory.
type DirPublisher struct {
	root string
}

// NewDirPublisher returns a publisher rooted at dir, creating it if needed.
func NewDirPublisher(dir string) (*DirPublisher, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty publish dir", repository.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create publish dir: %w", err)
	}
	return &DirPublisher{root: dir}, nil
}

// Publish writes body to <root>/<name> and returns the file path.
func (p *DirPublisher) Publish(ctx context.Context, name, _ string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(p.root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// sanitizeName keeps artifact names relative to the publisher root.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty artifact name", repository.ErrInvalidInput)
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: invalid artifact name %q", repository.ErrInvalidInput, name)
	}
	return filepath.ToSlash(filepath.Clean(name)), nil
}
