package storage

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("empty key")

// KV is a string-valued key-value medium. Get reports found=false for a
// missing key without an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
