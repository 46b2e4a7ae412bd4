// Package ingest imports dance pages into the catalogue.
// It coordinates fetching, change detection, parsing, image storage
// and persistence of dance records.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultImageConcurrency is the number of images of one dance downloaded
// at the same time.
const DefaultImageConcurrency = 4

// Importer fetches dance pages and stores the parsed dances.
// Downloader and Blobs are optional: images are kept as found on the page
// unless both are set.
type Importer struct {
	Fetcher    scddb.Fetcher
	Downloader scddb.Downloader
	Parser     scddb.Parser
	Dances     scddb.DanceService
	Blobs      scddb.BlobStore
	Sniffer    scddb.ContentSniffer
	Limiter    scddb.DomainLimiter

	RetryDelays      []time.Duration
	ImageConcurrency int

	// Force re-imports pages whose content did not change.
	Force bool

	Logger *slog.Logger
}

// Result holds the outcome of an import.
type Result struct {
	Imported      int
	Updated       int
	Skipped       int
	Failed        int
	Images        int
	ImageFailures int
	Bytes         int
}

// ProgressEvent reports progress during an import.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Dance     *scddb.Dance
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressImported
	ProgressUpdated
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// String returns a short label for the event type.
func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressImported:
		return "imported"
	case ProgressUpdated:
		return "updated"
	case ProgressSkipped:
		return "skipped"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	default:
		return fmt.Sprintf("ProgressType(%d)", int(t))
	}
}

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

// outcome is what happened to a single URL.
type outcome struct {
	typ    ProgressType
	dance  *scddb.Dance
	bytes  int
	images int
	failed int
	err    error
}

// Import fetches every URL in turn and stores the dance it describes.
// Repeated URLs are imported once. A failing URL is reported through
// progress and counted; only context cancellation stops the import early.
func (im *Importer) Import(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	urls = bloom.Unique(urls)
	total := len(urls)

	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	var result Result
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return &result, err
		}

		out := im.importURL(ctx, u)
		if out.err != nil && ctx.Err() != nil {
			return &result, ctx.Err()
		}

		result.Bytes += out.bytes
		result.Images += out.images
		result.ImageFailures += out.failed
		switch out.typ {
		case ProgressImported:
			result.Imported++
		case ProgressUpdated:
			result.Updated++
		case ProgressSkipped:
			result.Skipped++
		case ProgressFailed:
			result.Failed++
			im.logger().Warn("import failed", "url", u, "err", out.err)
		}

		progress(ProgressEvent{
			Type:      out.typ,
			Completed: i + 1,
			Total:     total,
			URL:       u,
			Dance:     out.dance,
			Error:     out.err,
		})
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return &result, nil
}

func (im *Importer) importURL(ctx context.Context, rawURL string) outcome {
	failed := func(err error) outcome { return outcome{typ: ProgressFailed, err: err} }

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return failed(scddb.Errorf(scddb.EINVALID, "invalid dance URL %q", rawURL))
	}

	if im.Limiter != nil {
		if err := im.Limiter.Wait(ctx, u.Host); err != nil {
			return failed(err)
		}
	}

	fetch := func(ctx context.Context, url string) (string, error) {
		return im.Fetcher.Fetch(ctx, url)
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, fetch, im.logger().Debug, im.retryDelays())
	if err != nil {
		return failed(err)
	}
	hash := ComputeHash(html)

	existing, err := im.findExisting(ctx, rawURL)
	if err != nil {
		return failed(err)
	}
	if existing != nil && existing.ContentHash == hash && !im.Force {
		return outcome{typ: ProgressSkipped, dance: existing, bytes: len(html)}
	}

	parsed := im.Parser.Parse(html, rawURL)
	if parsed.Name == scddb.UnknownName {
		return failed(scddb.Errorf(scddb.EINVALID, "no dance found at %s", rawURL))
	}
	d := parsed.Clone()
	d.SourceURL = rawURL
	d.ContentHash = hash

	stored, imgFailed := im.storeImages(ctx, d, hash)
	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	d.Note = ImageNote(stored, imgFailed)

	out := outcome{dance: d, bytes: len(html), images: stored, failed: imgFailed}
	if existing != nil {
		if d.Note == "" {
			d.Note = existing.Note
		}
		if err := im.Dances.UpdateDance(ctx, existing.ID, d); err != nil {
			return failed(err)
		}
		d.ID = existing.ID
		out.typ = ProgressUpdated
		return out
	}
	if err := im.Dances.CreateDance(ctx, d); err != nil {
		return failed(err)
	}
	out.typ = ProgressImported
	return out
}

func (im *Importer) findExisting(ctx context.Context, sourceURL string) (*scddb.Dance, error) {
	dances, err := im.Dances.FindDances(ctx, scddb.DanceFilter{SourceURL: &sourceURL, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(dances) == 0 {
		return nil, nil
	}
	return dances[0], nil
}

// storeImages downloads the images of d and records where each was stored.
// Images that fail keep an empty Location.
func (im *Importer) storeImages(ctx context.Context, d *scddb.Dance, hash string) (stored, failed int) {
	if im.Downloader == nil || im.Blobs == nil || len(d.Images) == 0 {
		return 0, 0
	}

	prefix := scddb.DanceIDFromURL(d.SourceURL)
	if prefix == "" {
		prefix = hash
	}

	var storedCount, failedCount atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.imageConcurrency())
	for i := range d.Images {
		img := &d.Images[i]
		g.Go(func() error {
			location, err := im.storeImage(gctx, prefix, i, img)
			if err != nil {
				failedCount.Add(1)
				im.logger().Warn("image failed", "url", img.URL, "err", err)
				return nil
			}
			img.Location = location
			storedCount.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(storedCount.Load()), int(failedCount.Load())
}

func (im *Importer) storeImage(ctx context.Context, prefix string, position int, img *scddb.Image) (string, error) {
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		return im.Downloader.Download(ctx, url)
	}
	data, err := FetchWithRetryDelays(ctx, img.URL, fetch, im.logger().Debug, im.retryDelays())
	if err != nil {
		return "", err
	}

	var contentType, ext string
	if im.Sniffer != nil {
		contentType, ext = im.Sniffer.Sniff(data)
	}
	return im.Blobs.Put(ctx, ImageKey(prefix, position, img.Filename, ext), data, contentType)
}

// ImageNote describes how many of the images of a dance were stored.
// It is empty when no download was attempted.
func ImageNote(stored, failed int) string {
	if stored+failed == 0 {
		return ""
	}
	return fmt.Sprintf("images downloaded: %d/%d", stored, stored+failed)
}

// ImageKey builds the blob key of the image at position on a dance page:
// "prefix/position-filename". A non-empty ext replaces the extension of
// filename.
func ImageKey(prefix string, position int, filename, ext string) string {
	name := path.Base(filename)
	if name == "." || name == "/" {
		name = scddb.DefaultImageFilename
	}
	if ext != "" {
		name = strings.TrimSuffix(name, path.Ext(name)) + ext
	}
	return fmt.Sprintf("%s/%d-%s", prefix, position, name)
}

func (im *Importer) retryDelays() []time.Duration {
	if im.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return im.RetryDelays
}

func (im *Importer) imageConcurrency() int {
	if im.ImageConcurrency <= 0 {
		return DefaultImageConcurrency
	}
	return im.ImageConcurrency
}

func (im *Importer) logger() *slog.Logger {
	if im.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return im.Logger
}
