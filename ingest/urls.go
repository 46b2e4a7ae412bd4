package ingest

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scddb"
)

// DefaultDancePath is the path pattern of a dance page on the source site.
// "%d" is replaced by the dance ID.
const DefaultDancePath = "/dd/dance/%d/"

// DanceURLs returns the page URLs of dances from through to, inclusive,
// built from base and a path pattern containing one "%d".
func DanceURLs(base, pattern string, from, to int) ([]string, error) {
	if from <= 0 || to < from {
		return nil, scddb.Errorf(scddb.EINVALID, "invalid dance ID range %d-%d", from, to)
	}
	if strings.Count(pattern, "%d") != 1 {
		return nil, scddb.Errorf(scddb.EINVALID, "dance path %q must contain one %%d", pattern)
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, scddb.Errorf(scddb.EINVALID, "invalid base URL %q", base)
	}

	urls := make([]string, 0, to-from+1)
	for id := from; id <= to; id++ {
		ref := &url.URL{Path: fmt.Sprintf(pattern, id)}
		urls = append(urls, u.ResolveReference(ref).String())
	}
	return urls, nil
}

// ParseIDRange parses "FROM-TO" or a single ID.
func ParseIDRange(s string) (from, to int, err error) {
	lo, hi, found := strings.Cut(strings.TrimSpace(s), "-")
	if from, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil {
		return 0, 0, scddb.Errorf(scddb.EINVALID, "invalid dance ID range %q", s)
	}
	to = from
	if found {
		if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
			return 0, 0, scddb.Errorf(scddb.EINVALID, "invalid dance ID range %q", s)
		}
	}
	if from <= 0 || to < from {
		return 0, 0, scddb.Errorf(scddb.EINVALID, "invalid dance ID range %q", s)
	}
	return from, to, nil
}

// ReadURLs reads one URL per line, skipping blank lines and lines starting
// with "#".
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
