package storage

import (
	"context"
	"io"
)

type PutInput struct {
	// Key, when set, is the exact object name to store under (the upload
	// endpoint derives it from the product name). Empty means pick one.
	Key         string
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}
