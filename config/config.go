// Package config loads scddb settings from an optional YAML file, a .env
// file and the environment.
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Source SourceConfig `yaml:"source"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Blob   BlobConfig   `yaml:"blob"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig selects and configures the catalogue database.
// An empty SQLitePath means ~/.scddb/scddb.db.
type StoreConfig struct {
	Driver      string `yaml:"driver"       env:"SCDDB_STORE"        env-default:"sqlite"`
	SQLitePath  string `yaml:"sqlite_path"  env:"SCDDB_DB"`
	PostgresDSN string `yaml:"postgres_dsn" env:"SCDDB_POSTGRES_DSN"`
	MaxConns    int32  `yaml:"max_conns"    env:"SCDDB_POSTGRES_MAX_CONNS" env-default:"4"`
}

// SourceConfig locates dance pages on the source site.
type SourceConfig struct {
	BaseURL   string `yaml:"base_url"   env:"SCDDB_BASE_URL"   env-default:"https://my.strathspey.org"`
	DancePath string `yaml:"dance_path" env:"SCDDB_DANCE_PATH" env-default:"/dd/dance/%d/"`
}

// FetchConfig controls how pages and images are downloaded.
type FetchConfig struct {
	Timeout          time.Duration `yaml:"timeout"           env:"SCDDB_FETCH_TIMEOUT"     env-default:"10s"`
	Delay            time.Duration `yaml:"delay"             env:"SCDDB_FETCH_DELAY"       env-default:"1s"`
	UserAgent        string        `yaml:"user_agent"        env:"SCDDB_USER_AGENT"`
	Browser          bool          `yaml:"browser"           env:"SCDDB_BROWSER"           env-default:"false"`
	BrowserPages     int64         `yaml:"browser_pages"     env:"SCDDB_BROWSER_PAGES"     env-default:"200"`
	ImageConcurrency int           `yaml:"image_concurrency" env:"SCDDB_IMAGE_CONCURRENCY" env-default:"4"`
}

// Blob backends.
const (
	BlobNone  = "none"
	BlobFS    = "fs"
	BlobMinio = "minio"
)

// BlobConfig selects where downloaded images are kept.
// An empty Dir means ~/.scddb/images. UseSSL is true unless turned off.
type BlobConfig struct {
	Backend   string `yaml:"backend"    env:"SCDDB_BLOB"            env-default:"fs"`
	Dir       string `yaml:"dir"        env:"SCDDB_BLOB_DIR"`
	Endpoint  string `yaml:"endpoint"   env:"SCDDB_MINIO_ENDPOINT"`
	Region    string `yaml:"region"     env:"SCDDB_MINIO_REGION"`
	AccessKey string `yaml:"access_key" env:"SCDDB_MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"SCDDB_MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket"     env:"SCDDB_MINIO_BUCKET"     env-default:"scddb"`
	UseSSL    bool   `yaml:"use_ssl"    env:"SCDDB_MINIO_USE_SSL"`
}

// CacheConfig sizes in-process caches.
type CacheConfig struct {
	ReferenceSize int `yaml:"reference_size" env:"SCDDB_REFERENCE_CACHE" env-default:"256"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"  env:"SCDDB_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"SCDDB_LOG_FORMAT" env-default:"text"`
}
