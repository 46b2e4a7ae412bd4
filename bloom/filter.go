// Package bloom provides URL deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate keeps the chance of wrongly dropping a dance URL
// from a full-catalogue import negligible.
const DefaultFalsePositiveRate = 1e-6

// Filter wraps a Bloom filter for URL deduplication.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// Seen reports whether url was probably added before and adds it.
func (f *Filter) Seen(url string) bool {
	return f.f.TestAndAddString(url)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Unique returns urls without repeats, keeping first occurrences in order.
func Unique(urls []string) []string {
	f := NewFilter(uint(len(urls)), DefaultFalsePositiveRate)
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !f.Seen(u) {
			out = append(out, u)
		}
	}
	return out
}
