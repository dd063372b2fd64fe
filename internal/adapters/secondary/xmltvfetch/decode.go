package xmltvfetch

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/ulikunitz/xz"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
)

// decode peels compression off the response body in two layers: first the
// HTTP transfer layer (Content-Encoding), then the packaging the publisher
// chose for the document itself (Content-Type / URL suffix).
func (c *Client) decode(contentEncoding, contentType string, body []byte) ([]byte, error) {
	body, err := c.decodeTransfer(contentEncoding, body)
	if err != nil {
		return nil, err
	}
	return c.decodePackaging(contentType, body)
}

// decodeTransfer undoes the Content-Encoding layer. Unknown encodings are a
// hard error; the server ignored our Accept-Encoding.
func (c *Client) decodeTransfer(encoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip":
		return decodeGzip(body)
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
	default:
		return nil, fmt.Errorf("%w: unsupported content encoding %q", domain.ErrConnection, encoding)
	}
}

// decodePackaging undoes the document packaging. Servers frequently
// mislabel feeds, so when the selected strategy fails the body is retried
// as plain text and the parser gets the final word.
func (c *Client) decodePackaging(contentType string, body []byte) ([]byte, error) {
	strategy := c.packagingFor(contentType)

	decoded, err := strategy.decode(c, body)
	if err == nil {
		return decoded, nil
	}
	if strategy.name == "plain" {
		return nil, err
	}

	c.logger.Debug("packaging decode failed, retrying body as plain text",
		"strategy", strategy.name, "error", err)
	return body, nil
}

type packaging struct {
	name   string
	decode func(*Client, []byte) ([]byte, error)
}

var (
	plainPackaging = packaging{"plain", func(_ *Client, b []byte) ([]byte, error) { return b, nil }}
	gzipPackaging  = packaging{"gzip", func(_ *Client, b []byte) ([]byte, error) { return decodeGzip(b) }}
	xzPackaging    = packaging{"xz", func(_ *Client, b []byte) ([]byte, error) { return decodeXZ(b) }}
	zipPackaging   = packaging{"zip", (*Client).decodeZip}
)

// packagingFor selects the decode strategy from the Content-Type header,
// falling back to the URL suffix when the type is missing or generic.
func (c *Client) packagingFor(contentType string) packaging {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch strings.ToLower(mediaType) {
	case "text/xml", "application/xml":
		return plainPackaging
	case "application/gzip", "application/x-gzip", "application/gzip-compressed", "gzip/document":
		return gzipPackaging
	case "application/x-xz", "application/xz":
		return xzPackaging
	case "application/zip", "application/x-zip-compressed":
		return zipPackaging
	}

	url := strings.ToLower(c.url)
	switch {
	case strings.HasSuffix(url, ".gz"):
		return gzipPackaging
	case strings.HasSuffix(url, ".xz"):
		return xzPackaging
	case strings.HasSuffix(url, ".zip"):
		return zipPackaging
	}

	// Unrecognized type: let the plain path and its parser decide.
	return plainPackaging
}

func decodeGzip(body []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", domain.ErrConnection, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", domain.ErrConnection, err)
	}
	return data, nil
}

func decodeXZ(body []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: xz: %v", domain.ErrConnection, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xz: %v", domain.ErrConnection, err)
	}
	return data, nil
}

// decodeZip extracts the feed from a zip archive. A single entry is taken
// as-is; among multiple entries the first *.xml one wins.
func (c *Client) decodeZip(body []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: zip: %v", domain.ErrConnection, err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("%w: zip archive is empty", domain.ErrConnection)
	}

	entry := zr.File[0]
	if len(zr.File) > 1 {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
				entry = f
				break
			}
		}
		c.logger.Warn("zip archive has multiple entries, using one",
			"entries", len(zr.File), "selected", entry.Name)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: zip entry %q: %v", domain.ErrConnection, entry.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: zip entry %q: %v", domain.ErrConnection, entry.Name, err)
	}
	return data, nil
}
