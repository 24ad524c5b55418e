// Package storage delivers finished shorts to a publish target: a local
// directory or an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Publisher copies a finished file to its destination and returns where it
// ended up, as a path or URL.
type Publisher interface {
	Publish(ctx context.Context, localPath, name string) (string, error)
}

// Target is a parsed publish destination. Scheme is "dir" or "s3".
type Target struct {
	Scheme string
	Bucket string // s3 only
	Prefix string // s3 key prefix, may be empty
	Path   string // dir only
}

// ParseTarget reads a publish destination: "s3://bucket/prefix" uploads,
// anything else is treated as a directory path.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, errors.New("publish target is empty")
	}
	if rest, ok := strings.CutPrefix(s, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Target{}, fmt.Errorf("publish target %q has no bucket", s)
		}
		return Target{Scheme: "s3", Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	}
	return Target{Scheme: "dir", Path: s}, nil
}
