package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/awnimo/compETAG/internal/checkfile"
	"github.com/awnimo/compETAG/internal/progress"
	"github.com/awnimo/compETAG/pkg/etag"
)

// runCompute computes digests for the files given as arguments and emits
// them as two-column records, suitable as input to the check command.
func runCompute(args []string) int {
	fs := flag.NewFlagSet("compute", flag.ExitOnError)

	mode := fs.String("mode", "etag", "Digest mode: etag or md5")
	chunkSize := fs.String("chunk-size", "8MB", "Chunk size for etag mode")
	outFile := fs.String("out", "", "Write records to this file instead of stdout")
	showProgress := fs.Bool("progress", false, "Show a progress bar while hashing")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: competag compute [options] <file> [file ...]

Compute multipart ETag or plain MD5 digests for local files.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one input file is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	m, ok := etag.ParseMode(*mode)
	if !ok || m == etag.ModeRemote {
		fmt.Fprintf(os.Stderr, "Error: mode must be etag or md5, got %q\n", *mode)
		return ExitInvalidArgs
	}

	chunkBytes, err := progress.ParseBytes(*chunkSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid chunk size: %v\n", err)
		return ExitInvalidArgs
	}

	entries := make([]etag.Entry, 0, len(files))
	failed := false
	for _, path := range files {
		digest, err := computeDigest(path, m, chunkBytes, *showProgress)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}
		entries = append(entries, etag.Entry{Expected: digest, Identifier: path})
	}

	var out io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile) // #nosec G304
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitGeneralError
		}
		defer f.Close()
		out = f
	}
	if err := checkfile.Write(out, entries); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	if failed {
		return ExitReadError
	}
	return ExitSuccess
}

// computeDigest hashes one file, optionally behind a progress bar.
func computeDigest(path string, mode etag.Mode, chunkSize int64, showProgress bool) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader = f
	if showProgress {
		if info, err := f.Stat(); err == nil {
			bar := progress.NewBar(info.Size(), "hashing "+path)
			defer func() { _ = bar.Finish() }()
			r = io.TeeReader(f, bar)
		}
	}

	if mode == etag.ModeMD5 {
		return etag.Sum(r)
	}
	return etag.ChunkedSum(r, chunkSize)
}
