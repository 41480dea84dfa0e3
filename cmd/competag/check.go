package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/awnimo/compETAG/internal/checkfile"
	"github.com/awnimo/compETAG/internal/config"
	"github.com/awnimo/compETAG/internal/progress"
	"github.com/awnimo/compETAG/pkg/etag"
)

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// runCheck compares a digest listing against local files or objects in
// remote storage.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)

	checkFile := fs.String("check", "", "Digest listing to verify (required)")
	mode := fs.String("mode", "", "Digest mode: etag, md5, or s3uri")
	chunkSize := fs.String("chunk-size", "", "Chunk size for etag mode")
	workers := fs.Int("workers", 0, "Parallel hashing workers for local modes")
	configFile := fs.String("config", "", "YAML configuration file")

	var buckets, keys, patterns stringList
	fs.Var(&buckets, "bucket", "Bucket URL for s3uri mode (repeatable)")
	fs.Var(&keys, "key", "Key or key prefix for s3uri mode (repeatable)")
	fs.Var(&patterns, "pattern", "Pattern fragment to filter keys (repeatable)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: competag check [options]

Read a two-column digest listing and verify each entry: against a locally
computed digest (etag or md5 mode) or against the ETag the storage provider
reports (s3uri mode, no download).

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	// Layer configuration: defaults, file, environment, then flags.
	cfg := config.Default()
	if *configFile != "" {
		fileCfg, err := config.LoadFromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	override := config.Config{
		Mode:      *mode,
		Workers:   *workers,
		Buckets:   buckets,
		Keys:      keys,
		Patterns:  patterns,
		CheckFile: *checkFile,
	}
	if *chunkSize != "" {
		n, err := progress.ParseBytes(*chunkSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid chunk size: %v\n", err)
			return ExitInvalidArgs
		}
		override.ChunkSize = n
	}
	cfg = cfg.Merge(override)

	if cfg.CheckFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -check is required")
		fs.Usage()
		return ExitInvalidArgs
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	entries, err := checkfile.ParseFile(cfg.CheckFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitReadError
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Unrecognized modes pass through: the engine reports them as a single
	// diagnostic line rather than a hard failure.
	checkMode, _ := etag.ParseMode(cfg.Mode)

	opts := etag.CheckOptions{
		Mode:      checkMode,
		ChunkSize: cfg.ChunkSize,
		Workers:   cfg.Workers,
		Output:    os.Stdout,
		Keys:      cfg.Keys,
		Patterns:  cfg.Patterns,
	}

	if checkMode == etag.ModeRemote {
		for _, url := range cfg.Buckets {
			bkt, err := blob.OpenBucket(ctx, url)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
				return ExitStorageError
			}
			defer bkt.Close()
			opts.Buckets = append(opts.Buckets, bkt)
		}
	}

	if err := etag.Check(ctx, entries, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if checkMode == etag.ModeRemote {
			return ExitStorageError
		}
		return ExitGeneralError
	}
	return ExitSuccess
}
