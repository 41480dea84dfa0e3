// Package etag computes and reconciles S3-style content digests.
//
// An ETag for a single-part upload is the MD5 of the object's content. For a
// multipart upload it is the MD5 of the concatenated binary MD5s of each
// part, suffixed with "-" and the part count. This package reproduces that
// scheme for local files so a locally computed digest can be compared against
// the digest a storage provider reports, without downloading the object.
//
// # Computing
//
// [Sum] computes a plain MD5 over a stream; [ChunkedSum] computes the
// multipart ETag for a given chunk size. [FileSum] and [FileChunkedSum] are
// path-based convenience wrappers.
//
// # Reconciling
//
// [Compare] checks one local file against an expected digest. [Check] runs a
// whole batch of (expected digest, identifier) entries in one of three modes:
// local chunked ETags, local whole-file MD5s, or provider-reported ETags
// looked up remotely.
//
// # Remote lookups
//
// [Resolver] enumerates objects under a prefix and reads their reported
// ETags from object metadata, storage-agnostic via gocloud.dev/blob. Only
// metadata is transferred, never object content.
package etag
