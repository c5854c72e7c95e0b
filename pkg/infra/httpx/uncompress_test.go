package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipCompress(data []byte) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(data)
	_ = gz.Close()
	return buf.Bytes()
}

func brCompress(data []byte) []byte {
	var buf bytes.Buffer
	br := brotli.NewWriter(&buf)
	_, _ = br.Write(data)
	_ = br.Close()
	return buf.Bytes()
}

func zstdCompress(data []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zstd.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

func zlibDeflateCompress(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

func rawDeflateCompress(data []byte) []byte {
	var buf bytes.Buffer
	dw, _ := flate.NewWriter(&buf, flate.DefaultCompression)
	_, _ = dw.Write(data)
	_ = dw.Close()
	return buf.Bytes()
}

func TestDecodeBody(t *testing.T) {
	plain := []byte(`{"text":"Ion Popescu, ion@example.ro"}`)

	tests := []struct {
		name     string
		encoding string
		body     []byte
		changed  bool
	}{
		{name: "no encoding", encoding: "", body: plain, changed: false},
		{name: "identity", encoding: "identity", body: plain, changed: false},
		{name: "gzip", encoding: "gzip", body: gzipCompress(plain), changed: true},
		{name: "brotli", encoding: "br", body: brCompress(plain), changed: true},
		{name: "zstd", encoding: "zstd", body: zstdCompress(plain), changed: true},
		{name: "deflate zlib wrapped", encoding: "deflate", body: zlibDeflateCompress(plain), changed: true},
		{name: "deflate raw", encoding: "deflate", body: rawDeflateCompress(plain), changed: true},
		{name: "chained gzip then br", encoding: "gzip, br", body: brCompress(gzipCompress(plain)), changed: true},
		{name: "case and whitespace", encoding: "  GZip  ", body: gzipCompress(plain), changed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, changed, err := DecodeBody(tt.encoding, tt.body, 1024)
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, plain, decoded)
		})
	}
}

func TestDecodeBody_UnsupportedEncoding(t *testing.T) {
	_, _, err := DecodeBody("compress", []byte("abc"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}

func TestDecodeBody_CorruptPayload(t *testing.T) {
	_, _, err := DecodeBody("gzip", []byte("not gzip"), 0)
	assert.Error(t, err)
}

func TestDecodeBody_Limit(t *testing.T) {
	plain := bytes.Repeat([]byte("a"), 1<<20)

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "gzip", encoding: "gzip", body: gzipCompress(plain)},
		{name: "brotli", encoding: "br", body: brCompress(plain)},
		{name: "zstd", encoding: "zstd", body: zstdCompress(plain)},
		{name: "deflate", encoding: "deflate", body: zlibDeflateCompress(plain)},
		{name: "chained", encoding: "gzip, br", body: brCompress(gzipCompress(plain))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Less(t, len(tt.body), 64*1024)

			_, _, err := DecodeBody(tt.encoding, tt.body, 64*1024)
			assert.ErrorIs(t, err, ErrBodyTooLarge)

			decoded, _, err := DecodeBody(tt.encoding, tt.body, len(plain))
			require.NoError(t, err)
			assert.Len(t, decoded, len(plain))
		})
	}
}
