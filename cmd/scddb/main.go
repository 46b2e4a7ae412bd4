package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/config"
	"github.com/fwojciec/scddb/fs"
	"github.com/fwojciec/scddb/goquery"
	"github.com/fwojciec/scddb/htmltomarkdown"
	scddbhttp "github.com/fwojciec/scddb/http"
	"github.com/fwojciec/scddb/lru"
	"github.com/fwojciec/scddb/minio"
	"github.com/fwojciec/scddb/postgres"
	"github.com/fwojciec/scddb/rod"
	scddbslog "github.com/fwojciec/scddb/slog"
	"github.com/fwojciec/scddb/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is loaded from the environment when nil. Set before calling Run().
	Config *config.Config

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program, releasing resources in reverse order
// of acquisition.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scddb"),
		kong.Description("Import Scottish country dance descriptions into a local catalogue."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scddb --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	cfg := m.Config
	if cfg == nil {
		if cfg, err = config.Load(); err != nil {
			fmt.Fprintln(stderr, "Hint: check SCDDB_* environment variables and the file named by SCDDB_CONFIG")
			return err
		}
	}
	deps.Config = cfg
	deps.Logger = newLogger(cfg.Log, stderr)
	deps.Parser = scddbslog.NewLoggingParser(newParser(cfg), deps.Logger)
	defer m.Close()

	if cmd != "parse" {
		if err := m.openStore(ctx, deps); err != nil {
			return err
		}
	}

	if cmd == "import" {
		if err := m.wireImport(deps, cli.Import.NoImages); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// openStore connects the configured database and wires the dance and
// reference services, with reference lookups cached in memory.
func (m *Main) openStore(ctx context.Context, deps *Dependencies) error {
	cfg := deps.Config.Store

	var refs scddb.ReferenceService
	var dances func(scddb.ReferenceService) scddb.DanceService
	switch cfg.Driver {
	case config.DriverPostgres:
		db := postgres.NewDB(cfg.PostgresDSN, postgres.WithMaxConns(cfg.MaxConns))
		if err := db.Open(ctx); err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: check SCDDB_POSTGRES_DSN")
			return fmt.Errorf("failed to open database: %w", err)
		}
		m.closers = append(m.closers, db)
		refs = postgres.NewReferenceService(db)
		dances = func(r scddb.ReferenceService) scddb.DanceService { return postgres.NewDanceService(db, r) }
	default:
		path := cfg.SQLitePath
		if path == "" {
			path = defaultPath("scddb.db")
		}
		db := sqlite.NewDB(path)
		if err := db.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set SCDDB_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		m.closers = append(m.closers, db)
		refs = sqlite.NewReferenceService(db)
		dances = func(r scddb.ReferenceService) scddb.DanceService { return sqlite.NewDanceService(db, r) }
	}

	if size := deps.Config.Cache.ReferenceSize; size > 0 {
		cached, err := lru.NewReferenceCache(refs, size)
		if err != nil {
			return err
		}
		refs = cached
	}
	deps.References = refs
	deps.Dances = dances(refs)
	return nil
}

// wireImport sets up fetching, sitemap discovery and image storage.
func (m *Main) wireImport(deps *Dependencies, noImages bool) error {
	cfg := deps.Config

	opts := []scddbhttp.Option{scddbhttp.WithTimeout(cfg.Fetch.Timeout)}
	if cfg.Fetch.UserAgent != "" {
		opts = append(opts, scddbhttp.WithUserAgent(cfg.Fetch.UserAgent))
	}
	client := scddbhttp.NewFetcher(opts...)

	var fetcher scddb.Fetcher = client
	if cfg.Fetch.Browser {
		browser, err := rod.NewFetcher(
			rod.WithFetchTimeout(cfg.Fetch.Timeout),
			rod.WithBrowserPages(cfg.Fetch.BrowserPages),
			rod.WithLogger(deps.Logger),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = browser
	}
	m.closers = append(m.closers, fetcher)

	deps.Fetcher = scddbslog.NewLoggingFetcher(fetcher, deps.Logger)
	deps.Downloader = scddbslog.NewLoggingDownloader(client, deps.Logger)
	deps.Sitemaps = scddbslog.NewLoggingSitemapService(scddbhttp.NewSitemapService(client.Client()), deps.Logger)
	deps.Sniffer = scddbhttp.Sniffer{}

	if noImages {
		return nil
	}
	blobs, err := newBlobStore(cfg.Blob)
	if err != nil {
		return err
	}
	if blobs != nil {
		deps.Blobs = scddbslog.NewLoggingBlobStore(blobs, deps.Logger)
	}
	return nil
}

func newBlobStore(cfg config.BlobConfig) (scddb.BlobStore, error) {
	switch cfg.Backend {
	case config.BlobMinio:
		return minio.NewBlobStore(minio.Config{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
	case config.BlobFS:
		dir := cfg.Dir
		if dir == "" {
			dir = defaultPath("images")
		}
		return fs.NewBlobStore(dir), nil
	default:
		return nil, nil
	}
}

func newParser(cfg *config.Config) scddb.Parser {
	return goquery.NewParser(
		goquery.WithBaseURL(cfg.Source.BaseURL),
		goquery.WithConverter(htmltomarkdown.NewConverter()),
	)
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// defaultPath returns name inside ~/.scddb, creating the directory.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	dir := filepath.Join(home, ".scddb")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, name)
}
