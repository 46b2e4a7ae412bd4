package mock

import (
	"context"

	"github.com/fwojciec/scddb"
)

var (
	_ scddb.BlobStore      = (*BlobStore)(nil)
	_ scddb.ContentSniffer = (*ContentSniffer)(nil)
)

// BlobStore is a mock implementation of scddb.BlobStore.
type BlobStore struct {
	PutFn func(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return s.PutFn(ctx, key, data, contentType)
}

// ContentSniffer is a mock implementation of scddb.ContentSniffer.
type ContentSniffer struct {
	SniffFn func(data []byte) (string, string)
}

func (s *ContentSniffer) Sniff(data []byte) (string, string) {
	return s.SniffFn(data)
}
