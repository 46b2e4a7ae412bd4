package config

import (
	"log/slog"
	"strings"

	"github.com/fwojciec/scddb"
)

// Validate checks enumerations and ranges. Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return scddb.Errorf(scddb.EINVALID, "store.postgres_dsn required for the postgres driver")
		}
		if c.Store.MaxConns <= 0 {
			return scddb.Errorf(scddb.EINVALID, "store.max_conns must be > 0 (got %d)", c.Store.MaxConns)
		}
	default:
		return scddb.Errorf(scddb.EINVALID, "store.driver must be %q or %q (got %q)", DriverSQLite, DriverPostgres, c.Store.Driver)
	}

	if strings.Count(c.Source.DancePath, "%d") != 1 {
		return scddb.Errorf(scddb.EINVALID, "source.dance_path must contain one %%d (got %q)", c.Source.DancePath)
	}

	if c.Fetch.Timeout <= 0 {
		return scddb.Errorf(scddb.EINVALID, "fetch.timeout must be > 0 (got %v)", c.Fetch.Timeout)
	}
	if c.Fetch.Delay < 0 {
		return scddb.Errorf(scddb.EINVALID, "fetch.delay must be >= 0 (got %v)", c.Fetch.Delay)
	}
	if c.Fetch.Browser && c.Fetch.BrowserPages <= 0 {
		return scddb.Errorf(scddb.EINVALID, "fetch.browser_pages must be > 0 (got %d)", c.Fetch.BrowserPages)
	}
	if c.Fetch.ImageConcurrency <= 0 {
		return scddb.Errorf(scddb.EINVALID, "fetch.image_concurrency must be > 0 (got %d)", c.Fetch.ImageConcurrency)
	}

	switch c.Blob.Backend {
	case BlobNone, BlobFS:
	case BlobMinio:
		if c.Blob.Endpoint == "" || c.Blob.Bucket == "" {
			return scddb.Errorf(scddb.EINVALID, "blob.endpoint and blob.bucket required for the minio backend")
		}
	default:
		return scddb.Errorf(scddb.EINVALID, "blob.backend must be %q, %q or %q (got %q)", BlobNone, BlobFS, BlobMinio, c.Blob.Backend)
	}

	if c.Cache.ReferenceSize < 0 {
		return scddb.Errorf(scddb.EINVALID, "cache.reference_size must be >= 0 (got %d)", c.Cache.ReferenceSize)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return scddb.Errorf(scddb.EINVALID, "log.format must be \"text\" or \"json\" (got %q)", c.Log.Format)
	}
	return nil
}

// SlogLevel returns the configured level as a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, scddb.Errorf(scddb.EINVALID, "log.level: %v", err)
	}
	return level, nil
}
