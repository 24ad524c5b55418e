package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dir publishes by copying into a directory, created on first use.
type Dir struct {
	root string
}

func NewDir(root string) *Dir { return &Dir{root: root} }

func (d *Dir) Publish(ctx context.Context, localPath, name string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("create publish dir: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() { _ = src.Close() }()

	dstPath := filepath.Join(d.root, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dstPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("copy to %s: %w", dstPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dstPath, err)
	}
	return dstPath, nil
}
