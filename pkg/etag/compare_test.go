package etag

import (
	"strings"
	"testing"
)

func TestCompareMatch(t *testing.T) {
	path := writeTempFile(t, []byte("hello world"))

	out, err := Compare(path, "5eb63bbbe01eeed093cb22bb8f5acdc3", ModeMD5, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !out.Matched {
		t.Errorf("expected match, got computed=%s", out.Computed)
	}
	if out.Identifier != path {
		t.Errorf("outcome should carry the identifier, got %s", out.Identifier)
	}
}

func TestCompareMismatch(t *testing.T) {
	path := writeTempFile(t, []byte("hello world"))

	out, err := Compare(path, "deadbeefdeadbeefdeadbeefdeadbeef", ModeMD5, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out.Matched {
		t.Error("expected mismatch")
	}
	if out.Computed != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("unexpected computed digest: %s", out.Computed)
	}
}

func TestCompareQuotedExpected(t *testing.T) {
	// The provider wire form is quoted; comparison must treat it the same
	// as the bare hex form.
	path := writeTempFile(t, []byte("some bytes"))

	digest, err := FileSum(path)
	if err != nil {
		t.Fatalf("FileSum: %v", err)
	}

	bare, err := Compare(path, digest, ModeMD5, 0)
	if err != nil {
		t.Fatalf("Compare bare: %v", err)
	}
	quoted, err := Compare(path, `"`+digest+`"`, ModeMD5, 0)
	if err != nil {
		t.Fatalf("Compare quoted: %v", err)
	}

	if !bare.Matched || !quoted.Matched {
		t.Errorf("quoting changed the result: bare=%v quoted=%v", bare.Matched, quoted.Matched)
	}
}

func TestComparePartCountMismatch(t *testing.T) {
	// Same hash prefix but a different part count is still a mismatch.
	path := writeTempFile(t, []byte(strings.Repeat("z", 10)))

	digest, err := FileChunkedSum(path, 4)
	if err != nil {
		t.Fatalf("FileChunkedSum: %v", err)
	}
	if !strings.HasSuffix(digest, "-3") {
		t.Fatalf("expected a -3 digest, got %s", digest)
	}
	wrongCount := strings.TrimSuffix(digest, "-3") + "-2"

	out, err := Compare(path, wrongCount, ModeETag, 4)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out.Matched {
		t.Error("part-count mismatch must not compare equal")
	}
}

func TestCompareETagWithoutChunkSize(t *testing.T) {
	// No chunk size in etag mode falls back to the whole-file digest.
	path := writeTempFile(t, []byte("fallback content"))

	whole, err := FileSum(path)
	if err != nil {
		t.Fatalf("FileSum: %v", err)
	}

	out, err := Compare(path, whole, ModeETag, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !out.Matched {
		t.Errorf("expected fallback to whole-file digest, computed=%s", out.Computed)
	}
}

func TestCompareUnreadable(t *testing.T) {
	_, err := Compare("definitely/not/a/file", "abc", ModeMD5, 0)
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestCompareRemoteModeRejected(t *testing.T) {
	_, err := Compare("some/file", "abc", ModeRemote, 0)
	if err == nil {
		t.Fatal("remote mode is not a local comparison")
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"etag", "md5", "s3uri"} {
		m, ok := ParseMode(s)
		if !ok {
			t.Errorf("ParseMode(%q) should be recognized", s)
		}
		if string(m) != s {
			t.Errorf("ParseMode(%q) = %q", s, m)
		}
	}

	m, ok := ParseMode("bogus")
	if ok {
		t.Error("ParseMode(\"bogus\") should not be recognized")
	}
	if string(m) != "bogus" {
		t.Errorf("unrecognized mode should keep the raw string, got %q", m)
	}
}
