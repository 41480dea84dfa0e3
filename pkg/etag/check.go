package etag

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gocloud.dev/blob"
)

// Entry pairs an expected digest with the identifier it should match: a
// local file path in local modes, or an object key fragment in remote mode.
type Entry struct {
	Expected   string
	Identifier string
}

// CheckOptions configures a reconciliation run.
type CheckOptions struct {
	// Mode selects local chunked ETags, local MD5s, or remote lookups.
	Mode Mode

	// ChunkSize is the part size for ModeETag. When zero, local entries
	// fall back to whole-file digests.
	ChunkSize int64

	// Workers is the number of parallel local digest workers. Values <= 1
	// digest sequentially. Report lines are emitted in entry order either
	// way.
	Workers int

	// Output receives the report, one line per outcome. Default: os.Stdout.
	Output io.Writer

	// Buckets and Keys define where remote lookups search. Both are
	// required in ModeRemote.
	Buckets []*blob.Bucket
	Keys    []string

	// Patterns are raw pattern fragments joined with alternation to filter
	// listed keys. When empty in ModeRemote, a pattern is synthesized from
	// the entry identifiers so one listing pass serves the whole batch.
	Patterns []string
}

// Check reconciles entries against computed or reported digests, writing one
// report line per outcome to opts.Output.
//
// Per-entry read failures become a visible report line for that entry and
// never abort the rest of the batch. Setup problems in remote mode (missing
// buckets or keys, a pattern that does not compile, a failed listing) are
// returned as an error before any entry is reported. An unrecognized mode
// produces a single diagnostic line and a nil error.
func Check(ctx context.Context, entries []Entry, opts CheckOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	switch opts.Mode {
	case ModeETag, ModeMD5:
		checkLocal(entries, opts)
		return nil
	case ModeRemote:
		return checkRemote(ctx, entries, opts)
	default:
		fmt.Fprintf(opts.Output, "Mode '%s' not recognized!\n", opts.Mode)
		return nil
	}
}

// localReport digests one entry and renders its report lines.
func localReport(e Entry, opts CheckOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Comparing %ss for %s ...\n", opts.Mode, e.Identifier)

	out, err := Compare(e.Identifier, e.Expected, opts.Mode, opts.ChunkSize)
	if err != nil {
		fmt.Fprintf(&b, "%s\t%s\t-->\terror: %v\n", e.Expected, e.Identifier, err)
		return b.String()
	}
	if out.Matched {
		fmt.Fprintf(&b, "%s\t%s\tOk!\n", e.Expected, e.Identifier)
	} else {
		fmt.Fprintf(&b, "%s\t%s\t-->\t%s\tNO MATCH!\n", e.Expected, e.Identifier, out.Computed)
	}
	return b.String()
}

func checkLocal(entries []Entry, opts CheckOptions) {
	workers := opts.Workers
	if workers > len(entries) {
		workers = len(entries)
	}
	if workers <= 1 {
		for _, e := range entries {
			io.WriteString(opts.Output, localReport(e, opts))
		}
		return
	}

	// Entries are digested in parallel but each entry's lines are buffered
	// and flushed strictly in entry order.
	reports := make([]chan string, len(entries))
	for i := range reports {
		reports[i] = make(chan string, 1)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] <- localReport(entries[i], opts)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range entries {
			jobs <- i
		}
	}()

	for i := range entries {
		io.WriteString(opts.Output, <-reports[i])
	}
	wg.Wait()
}

func checkRemote(ctx context.Context, entries []Entry, opts CheckOptions) error {
	fragments := opts.Patterns
	if len(fragments) == 0 {
		fragments = make([]string, 0, len(entries))
		for _, e := range entries {
			fragments = append(fragments, e.Identifier)
		}
	}
	m, err := CompileMatcher(fragments)
	if err != nil {
		return err
	}

	// One listing pass serves every entry.
	resolved, err := ResolveMany(ctx, opts.Buckets, opts.Keys, m)
	if err != nil {
		return err
	}

	for _, e := range entries {
		want := stripQuotes(e.Expected)

		// Select every resolved object whose key contains this entry's
		// identifier, keeping one line per distinct digest. Several
		// distinct digests for one identifier is an ambiguity worth
		// surfacing, so each gets its own comparison line.
		seen := make(map[string]bool)
		var digests []string
		for _, r := range resolved {
			if strings.Contains(r.Key, e.Identifier) && !seen[r.ETag] {
				seen[r.ETag] = true
				digests = append(digests, r.ETag)
			}
		}

		if len(digests) == 0 {
			fmt.Fprintf(opts.Output, "%s not found!\n", e.Identifier)
			continue
		}
		for _, d := range digests {
			if d == want {
				fmt.Fprintf(opts.Output, "%s\t%s\tOk!\n", e.Expected, e.Identifier)
			} else {
				fmt.Fprintf(opts.Output, "%s\t%s\t-->\t%s\tNO MATCH!\n", e.Expected, e.Identifier, d)
			}
		}
	}
	return nil
}
