package etag

import (
	"crypto/md5" // #nosec G501 -- ETags are MD5-based by the provider's convention
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the part size most multipart upload tools use (8 MiB).
const DefaultChunkSize int64 = 8 * 1024 * 1024

// ErrInvalidChunkSize is returned by ChunkedSum when the chunk size is not
// positive.
var ErrInvalidChunkSize = errors.New("etag: chunk size must be positive")

// readBufferSize is the buffer used for whole-stream reads. It bounds memory
// use; it has no effect on the resulting digest.
const readBufferSize = 1 << 20

// Sum computes the MD5 digest of everything in r, as lowercase hex.
func Sum(r io.Reader) (string, error) {
	h := md5.New() // #nosec G401
	if _, err := io.CopyBuffer(h, r, make([]byte, readBufferSize)); err != nil {
		return "", fmt.Errorf("etag: read: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChunkedSum computes the multipart ETag of r: the stream is split into
// sequential chunks of exactly chunkSize bytes (the last chunk may be
// shorter), each chunk is hashed, and the binary chunk hashes are combined.
//
// With a single chunk the result is the hex digest of that chunk's hash,
// identical to Sum. With n > 1 chunks the result is the hex MD5 of the
// concatenated binary chunk hashes followed by "-<n>". An empty stream yields
// the MD5 of the empty string with no suffix.
func ChunkedSum(r io.Reader, chunkSize int64) (string, error) {
	if chunkSize <= 0 {
		return "", ErrInvalidChunkSize
	}

	var sums [][]byte
	for {
		h := md5.New() // #nosec G401
		n, err := io.CopyN(h, r, chunkSize)
		if n > 0 {
			sums = append(sums, h.Sum(nil))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("etag: read chunk %d: %w", len(sums), err)
		}
	}

	switch len(sums) {
	case 0:
		// Zero chunks: defined as the digest of the empty byte string.
		return hex.EncodeToString(md5.New().Sum(nil)), nil // #nosec G401
	case 1:
		return hex.EncodeToString(sums[0]), nil
	}

	combined := md5.New() // #nosec G401
	for _, s := range sums {
		combined.Write(s)
	}
	return fmt.Sprintf("%s-%d", hex.EncodeToString(combined.Sum(nil)), len(sums)), nil
}

// FileSum computes the whole-file MD5 digest of the file at path.
func FileSum(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is caller input by design
	if err != nil {
		return "", fmt.Errorf("etag: open %s: %w", path, err)
	}
	defer f.Close()

	return Sum(f)
}

// FileChunkedSum computes the multipart ETag of the file at path.
func FileChunkedSum(path string, chunkSize int64) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("etag: open %s: %w", path, err)
	}
	defer f.Close()

	return ChunkedSum(f, chunkSize)
}

// stripQuotes removes one layer of surrounding double quotes, the wire form
// providers use when reporting ETags.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
