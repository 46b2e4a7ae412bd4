package scddb

import "context"

// BlobStore keeps downloaded binary content.
type BlobStore interface {
	// Put stores data under key and returns where it can be found again
	// (a file path or an object URL).
	Put(ctx context.Context, key string, data []byte, contentType string) (location string, err error)
}

// ContentSniffer guesses the media type of downloaded content.
type ContentSniffer interface {
	// Sniff returns a media type such as "image/png" and the file extension
	// that goes with it, including the dot. ext is "" for unknown content.
	Sniff(data []byte) (contentType, ext string)
}
