package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/config"
)

// Dependencies holds all services and configuration for command execution.
// Services a command does not need may be nil.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *config.Config

	Dances     scddb.DanceService
	References scddb.ReferenceService
	Parser     scddb.Parser
	Fetcher    scddb.Fetcher
	Downloader scddb.Downloader
	Blobs      scddb.BlobStore
	Sniffer    scddb.ContentSniffer
	Sitemaps   scddb.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Import ImportCmd `cmd:"" help:"Fetch dance pages and store the dances"`
	Parse  ParseCmd  `cmd:"" help:"Parse a saved dance page and print the result"`
	List   ListCmd   `cmd:"" help:"List stored dances"`
	Show   ShowCmd   `cmd:"" help:"Show one stored dance"`
	Delete DeleteCmd `cmd:"" help:"Delete stored dances"`
	Export ExportCmd `cmd:"" help:"Write every dance as markdown with YAML frontmatter"`
	Refs   RefsCmd   `cmd:"" help:"List a reference table (set_type, dance_type, dance_format)"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	URLs     []string       `arg:"" optional:"" name:"url" help:"Dance page URLs"`
	IDs      string         `name:"ids" help:"Dance ID range on the source site, e.g. 100-200"`
	File     string         `short:"f" type:"existingfile" help:"File with one URL per line"`
	Pages    []string       `name:"page" help:"Import every dance linked from this page (repeatable)"`
	Sitemap  bool           `help:"Import every dance page listed in the source site's sitemap"`
	Force    bool           `help:"Re-import pages that did not change"`
	NoImages bool           `name:"no-images" help:"Do not download images"`
	Delay    *time.Duration `help:"Minimum delay between requests to the same host"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File string `arg:"" type:"existingfile" help:"Saved HTML dance page"`
	URL  string `help:"Address the page was fetched from"`
	JSON bool   `name:"json" help:"Print the record as JSON"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Name      string `short:"n" help:"Words of the dance name (any may match)"`
	Author    string `short:"a" help:"Words of the author name (any may match)"`
	Type      string `short:"t" help:"Dance type, e.g. Reel"`
	Formation string `help:"Set formation, e.g. 'Longwise set'"`
	Limit     int    `default:"50" help:"Maximum number of dances to list (0 for all)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Dance ID"`
	JSON bool   `name:"json" help:"Print the record as JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	IDs   []string `arg:"" name:"id" help:"Dance IDs"`
	Force bool     `help:"Confirm deletion"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" help:"Output directory; replaced when the export completes"`
}

// RefsCmd is the "refs" subcommand.
type RefsCmd struct {
	Kind string `arg:"" enum:"set_type,dance_type,dance_format" help:"Reference table"`
}
