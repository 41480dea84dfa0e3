package etag

import (
	"context"
	"strings"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func openTestBucket(t *testing.T, ctx context.Context, objects map[string]string) *blob.Bucket {
	t.Helper()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	t.Cleanup(func() { bucket.Close() })

	for key, content := range objects {
		if err := bucket.WriteAll(ctx, key, []byte(content), nil); err != nil {
			t.Fatalf("write %s: %v", key, err)
		}
	}
	return bucket
}

// reportedETag reads an object's ETag straight from bucket attributes, as the
// reference value for resolver results.
func reportedETag(t *testing.T, ctx context.Context, bucket *blob.Bucket, key string) string {
	t.Helper()
	attrs, err := bucket.Attributes(ctx, key)
	if err != nil {
		t.Fatalf("attributes %s: %v", key, err)
	}
	return stripQuotes(attrs.ETag)
}

func TestListKeysPrefix(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t, ctx, map[string]string{
		"run1/a.fastq": "AAAA",
		"run1/b.fastq": "BBBB",
		"run2/c.fastq": "CCCC",
	})

	keys, err := NewResolver(bucket).ListKeys(ctx, "run1/", nil)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(keys), keys)
	}
	if keys[0] != "run1/a.fastq" || keys[1] != "run1/b.fastq" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestListKeysPattern(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t, ctx, map[string]string{
		"run1/a.fastq": "AAAA",
		"run1/a.bai":   "IIII",
		"run1/b.fastq": "BBBB",
	})

	m, err := CompileMatcher([]string{`\.fastq$`})
	if err != nil {
		t.Fatalf("CompileMatcher: %v", err)
	}

	keys, err := NewResolver(bucket).ListKeys(ctx, "run1/", m)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
	for _, k := range keys {
		if !strings.HasSuffix(k, ".fastq") {
			t.Errorf("pattern leaked key %s", k)
		}
	}
}

func TestObjectETag(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t, ctx, map[string]string{"data/obj.bin": "content"})

	res, err := NewResolver(bucket).ObjectETag(ctx, "data/obj.bin")
	if err != nil {
		t.Fatalf("ObjectETag: %v", err)
	}
	if res.Key != "data/obj.bin" {
		t.Errorf("unexpected key: %s", res.Key)
	}
	if want := reportedETag(t, ctx, bucket, "data/obj.bin"); res.ETag != want {
		t.Errorf("expected %q, got %q", want, res.ETag)
	}
	if strings.Contains(res.ETag, `"`) {
		t.Errorf("resolved ETag must be quote-stripped: %q", res.ETag)
	}
}

func TestObjectETagNotFound(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t, ctx, nil)

	_, err := NewResolver(bucket).ObjectETag(ctx, "missing/key")
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !IsNotFound(err) {
		t.Errorf("expected a NotFound error, got %v", err)
	}
}

func TestResolveETagsEmpty(t *testing.T) {
	// Zero matches is a reportable outcome, not a fault.
	ctx := context.Background()
	bucket := openTestBucket(t, ctx, map[string]string{"other/x.bin": "XXXX"})

	resolved, err := NewResolver(bucket).ResolveETags(ctx, "nothing/here/", nil)
	if err != nil {
		t.Fatalf("ResolveETags: %v", err)
	}
	if len(resolved) != 0 {
		t.Errorf("expected empty result, got %v", resolved)
	}
}

func TestResolveETagsOrder(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t, ctx, map[string]string{
		"p/one": "1",
		"p/two": "2",
	})

	resolved, err := NewResolver(bucket).ResolveETags(ctx, "p/", nil)
	if err != nil {
		t.Fatalf("ResolveETags: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resolved))
	}
	if resolved[0].Key != "p/one" || resolved[1].Key != "p/two" {
		t.Errorf("results not in listing order: %v", resolved)
	}
	for _, r := range resolved {
		if want := reportedETag(t, ctx, bucket, r.Key); r.ETag != want {
			t.Errorf("%s: expected %q, got %q", r.Key, want, r.ETag)
		}
	}
}

func TestResolveManyCrossProduct(t *testing.T) {
	ctx := context.Background()
	b1 := openTestBucket(t, ctx, map[string]string{"proj/a": "aa"})
	b2 := openTestBucket(t, ctx, map[string]string{"proj/b": "bb"})

	resolved, err := ResolveMany(ctx, []*blob.Bucket{b1, b2}, []string{"proj/"}, nil)
	if err != nil {
		t.Fatalf("ResolveMany: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 results across buckets, got %d", len(resolved))
	}
	if resolved[0].Key != "proj/a" || resolved[1].Key != "proj/b" {
		t.Errorf("unexpected keys: %v", resolved)
	}
}

func TestResolveManyMissingArgs(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t, ctx, nil)

	if _, err := ResolveMany(ctx, nil, []string{"k"}, nil); err != ErrMissingBucket {
		t.Errorf("expected ErrMissingBucket, got %v", err)
	}
	if _, err := ResolveMany(ctx, []*blob.Bucket{bucket}, nil, nil); err != ErrMissingKey {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
}
