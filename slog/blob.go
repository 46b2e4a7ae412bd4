package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scddb"
)

var _ scddb.BlobStore = (*LoggingBlobStore)(nil)

// LoggingBlobStore wraps a BlobStore with logging.
type LoggingBlobStore struct {
	next   scddb.BlobStore
	logger *slog.Logger
}

// NewLoggingBlobStore creates a new LoggingBlobStore.
func NewLoggingBlobStore(next scddb.BlobStore, logger *slog.Logger) *LoggingBlobStore {
	return &LoggingBlobStore{next: next, logger: logger}
}

// Put delegates to the wrapped store.
func (s *LoggingBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (location string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("blob put",
			"key", key,
			"type", contentType,
			"bytes", len(data),
			"location", location,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(ctx, key, data, contentType)
}
