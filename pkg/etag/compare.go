package etag

import (
	"fmt"
)

// Mode selects how a batch of expected digests is reconciled.
type Mode string

const (
	// ModeETag computes local multipart ETags with a configured chunk size.
	ModeETag Mode = "etag"
	// ModeMD5 computes local whole-file MD5 digests.
	ModeMD5 Mode = "md5"
	// ModeRemote looks up provider-reported ETags instead of hashing locally.
	ModeRemote Mode = "s3uri"
)

// ParseMode maps a mode string to its Mode and reports whether it is one of
// the recognized modes. The returned Mode carries the raw string either way,
// so diagnostics can name unrecognized input.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	switch m {
	case ModeETag, ModeMD5, ModeRemote:
		return m, true
	}
	return m, false
}

// Outcome records the result of reconciling one expected digest.
type Outcome struct {
	Identifier string // file path or object key fragment
	Expected   string // expected digest, quote-stripped
	Computed   string // locally computed or provider-reported digest
	Matched    bool
}

// Compare digests the local file at path and checks it against expected.
//
// One layer of surrounding double quotes is stripped from expected before
// comparing; digests are otherwise compared case-sensitively as hex strings,
// part-count suffix included. In ModeETag a chunkSize <= 0 falls back to the
// whole-file digest. Compare does not print; reporting is the caller's job.
func Compare(path, expected string, mode Mode, chunkSize int64) (Outcome, error) {
	want := stripQuotes(expected)

	var computed string
	var err error
	switch mode {
	case ModeETag:
		if chunkSize > 0 {
			computed, err = FileChunkedSum(path, chunkSize)
		} else {
			computed, err = FileSum(path)
		}
	case ModeMD5:
		computed, err = FileSum(path)
	default:
		return Outcome{}, fmt.Errorf("etag: mode %q cannot be compared locally", mode)
	}
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Identifier: path,
		Expected:   want,
		Computed:   computed,
		Matched:    computed == want,
	}, nil
}
