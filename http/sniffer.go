package http

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/fwojciec/scddb"
)

var _ scddb.ContentSniffer = Sniffer{}

// Sniffer detects the media type of downloaded images from their first
// bytes using the WHATWG sniffing algorithm, with an extra check for SVG,
// which the algorithm reports as XML or plain text.
type Sniffer struct{}

var extensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
}

// Sniff implements scddb.ContentSniffer.
func (Sniffer) Sniff(data []byte) (string, string) {
	if isSVG(data) {
		return "image/svg+xml", ".svg"
	}
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct, extensions[ct]
}

func isSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	head = bytes.TrimLeft(head, "\xef\xbb\xbf \t\r\n")
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}
