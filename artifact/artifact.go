// Package artifact holds the ticket document stores.
package artifact

import "context"

type Store interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, location string) ([]byte, error)
}
