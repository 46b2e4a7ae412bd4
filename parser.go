package scddb

// Parser turns a dance page into a dance record.
type Parser interface {
	// Parse extracts a dance from raw HTML. sourceURL is the address the
	// page was fetched from and may be empty. Parse never fails: missing
	// or malformed input yields a record filled with defaults.
	Parse(html, sourceURL string) *Dance
}
