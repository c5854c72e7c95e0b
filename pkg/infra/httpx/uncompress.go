package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported content-encoding")
	ErrBodyTooLarge        = errors.New("decoded body exceeds limit")
)

// DecodeBody decodes a request or response body according to a
// Content-Encoding value. Chained encodings ("gzip, br") are undone in
// reverse order. Supported: br, gzip, zstd, deflate (zlib-wrapped or raw).
// No stage may inflate past limit bytes; limit <= 0 disables the check.
// Returns the decoded body and whether it changed.
func DecodeBody(contentEncoding string, body []byte, limit int) ([]byte, bool, error) {
	if strings.TrimSpace(contentEncoding) == "" {
		return body, false, nil
	}
	encodings := strings.Split(contentEncoding, ",")
	changed := false
	for i := len(encodings) - 1; i >= 0; i-- {
		var (
			out []byte
			err error
		)
		switch enc := strings.TrimSpace(strings.ToLower(encodings[i])); enc {
		case "br":
			out, err = readAllLimited(brotli.NewReader(bytes.NewReader(body)), limit)
		case "gzip", "x-gzip":
			out, err = readGzip(body, limit)
		case "zstd":
			out, err = readZstd(body, limit)
		case "deflate":
			out, err = readDeflate(body, limit)
		case "identity", "":
			continue
		default:
			return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
		}
		if err != nil {
			return nil, false, err
		}
		body = out
		changed = true
	}
	return body, changed, nil
}

func readAllLimited(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	out, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return out, nil
}

func readGzip(body []byte, limit int) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	out, err := readAllLimited(gr, limit)
	cerr := gr.Close()
	if err != nil {
		return nil, err
	}
	return out, cerr
}

func readZstd(body []byte, limit int) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readAllLimited(dec, limit)
}

func readDeflate(body []byte, limit int) ([]byte, error) {
	// RFC 1950 framing first, raw DEFLATE as fallback
	if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		out, err := readAllLimited(zr, limit)
		cerr := zr.Close()
		if err != nil {
			return nil, err
		}
		return out, cerr
	}
	fr := flate.NewReader(bytes.NewReader(body))
	out, err := readAllLimited(fr, limit)
	cerr := fr.Close()
	if err != nil {
		return nil, err
	}
	return out, cerr
}
