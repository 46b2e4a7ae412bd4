package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/goquery"
	"github.com/fwojciec/scddb/ingest"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	urls, err := c.collectURLs(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scddb.ErrorMessage(err))
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stderr, "error: nothing to import. Pass URLs or use --ids, --file, --page or --sitemap.")
		return scddb.Errorf(scddb.EINVALID, "nothing to import")
	}

	delay := deps.Config.Fetch.Delay
	if c.Delay != nil {
		delay = *c.Delay
	}

	im := &ingest.Importer{
		Fetcher:          deps.Fetcher,
		Downloader:       deps.Downloader,
		Parser:           deps.Parser,
		Dances:           deps.Dances,
		Blobs:            deps.Blobs,
		Sniffer:          deps.Sniffer,
		Limiter:          ingest.NewDomainLimiter(delay),
		ImageConcurrency: deps.Config.Fetch.ImageConcurrency,
		Force:            c.Force,
		Logger:           deps.Logger,
	}
	if c.NoImages {
		im.Downloader = nil
	}

	progress := func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Importing %d pages\n", event.Total)
		case ingest.ProgressImported, ingest.ProgressUpdated:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s %s\n", event.Completed, event.Total, event.Type, event.Dance.Name)
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", ingest.TruncateURL(event.URL, 60), failure(event.Error))
		}
	}

	result, err := im.Import(deps.Ctx, urls, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error importing: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d, updated %d, unchanged %d, failed %d (%s, %d images",
		result.Imported, result.Updated, result.Skipped, result.Failed, ingest.FormatBytes(result.Bytes), result.Images)
	if result.ImageFailures > 0 {
		fmt.Fprintf(deps.Stdout, ", %d failed", result.ImageFailures)
	}
	fmt.Fprintln(deps.Stdout, ")")
	return nil
}

func (c *ImportCmd) collectURLs(deps *Dependencies) ([]string, error) {
	urls := append([]string(nil), c.URLs...)

	if c.IDs != "" {
		from, to, err := ingest.ParseIDRange(c.IDs)
		if err != nil {
			return nil, err
		}
		ranged, err := ingest.DanceURLs(deps.Config.Source.BaseURL, deps.Config.Source.DancePath, from, to)
		if err != nil {
			return nil, err
		}
		urls = append(urls, ranged...)
	}

	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		listed, err := ingest.ReadURLs(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.File, err)
		}
		urls = append(urls, listed...)
	}

	for _, page := range c.Pages {
		html, err := deps.Fetcher.Fetch(deps.Ctx, page)
		if err != nil {
			return nil, err
		}
		linked, err := goquery.ExtractLinks(html, page, scddb.DanceURLFilter())
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(deps.Stdout, "Found %d dance links on %s\n", len(linked), page)
		urls = append(urls, linked...)
	}

	if c.Sitemap {
		found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, deps.Config.Source.BaseURL, scddb.DanceURLFilter())
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(deps.Stdout, "Found %d dance pages in sitemap\n", len(found))
		urls = append(urls, found...)
	}

	return urls, nil
}

// failure renders an error for one line of command output.
func failure(err error) string {
	if scddb.ErrorCode(err) == scddb.EINTERNAL {
		return err.Error()
	}
	return scddb.ErrorMessage(err)
}
