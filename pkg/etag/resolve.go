package etag

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// ErrMissingBucket is returned by ResolveMany when no buckets are supplied.
var ErrMissingBucket = errors.New("etag: bucket is required for remote lookups")

// ErrMissingKey is returned by ResolveMany when no keys are supplied.
var ErrMissingKey = errors.New("etag: key is required for remote lookups")

// Resolved is a remote object's reported digest, quote-stripped, together
// with the key it was reported for.
type Resolved struct {
	ETag string
	Key  string
}

// Resolver reads provider-reported ETags from object metadata. It never
// transfers object content.
type Resolver struct {
	bucket *blob.Bucket
}

// NewResolver returns a Resolver over an open bucket handle. The caller
// retains ownership of the handle.
func NewResolver(bucket *blob.Bucket) *Resolver {
	return &Resolver{bucket: bucket}
}

// ListKeys enumerates keys under prefix that match m, in listing order. The
// listing is a one-shot pass over the bucket's own pagination.
func (r *Resolver) ListKeys(ctx context.Context, prefix string, m *Matcher) ([]string, error) {
	var keys []string
	iter := r.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("etag: list %q: %w", prefix, err)
		}
		if m.MatchKey(obj.Key) {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}

// ObjectETag fetches the reported ETag for a single key. The returned value
// has the provider's surrounding quotes stripped. The error wraps
// gcerrors.NotFound when the key does not exist; see IsNotFound.
func (r *Resolver) ObjectETag(ctx context.Context, key string) (Resolved, error) {
	attrs, err := r.bucket.Attributes(ctx, key)
	if err != nil {
		return Resolved{}, fmt.Errorf("etag: attributes %q: %w", key, err)
	}
	return Resolved{ETag: stripQuotes(attrs.ETag), Key: key}, nil
}

// ResolveETags lists keys under prefix matching m and fetches each one's
// reported ETag, in listing order. Zero matches is not an error: the result
// is simply empty.
func (r *Resolver) ResolveETags(ctx context.Context, prefix string, m *Matcher) ([]Resolved, error) {
	keys, err := r.ListKeys(ctx, prefix, m)
	if err != nil {
		return nil, err
	}

	resolved := make([]Resolved, 0, len(keys))
	for _, key := range keys {
		res, err := r.ObjectETag(ctx, key)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, res)
	}
	return resolved, nil
}

// ResolveMany resolves reported ETags for every bucket and key-prefix
// combination, concatenating the results in bucket then key order. Both
// buckets and keys are mandatory.
func ResolveMany(ctx context.Context, buckets []*blob.Bucket, keys []string, m *Matcher) ([]Resolved, error) {
	if len(buckets) == 0 {
		return nil, ErrMissingBucket
	}
	if len(keys) == 0 {
		return nil, ErrMissingKey
	}

	var all []Resolved
	for _, bucket := range buckets {
		r := NewResolver(bucket)
		for _, key := range keys {
			resolved, err := r.ResolveETags(ctx, key, m)
			if err != nil {
				return nil, err
			}
			all = append(all, resolved...)
		}
	}
	return all, nil
}

// IsNotFound reports whether err indicates a missing remote object.
func IsNotFound(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
