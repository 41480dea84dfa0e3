// Package checkfile reads and writes two-column digest listings: one
// expected digest and one identifier per line, whitespace-separated, in the
// style of md5sum check files. Blank lines and '#' comments are ignored.
package checkfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awnimo/compETAG/pkg/etag"
)

// maxLine bounds a single record; digests and keys are short, but object
// keys can legitimately run long.
const maxLine = 1 << 20

// Parse reads (digest, identifier) records from r in input order.
func Parse(r io.Reader) ([]etag.Entry, error) {
	var entries []etag.Entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("checkfile: line %d: expected 2 fields, got %d", line, len(fields))
		}
		entries = append(entries, etag.Entry{Expected: fields[0], Identifier: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("checkfile: scan: %w", err)
	}
	return entries, nil
}

// ParseFile reads records from the file at path.
func ParseFile(path string) ([]etag.Entry, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("checkfile: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Write writes entries as tab-separated records, one per line, in a form
// Parse accepts back.
func Write(w io.Writer, entries []etag.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Expected, e.Identifier); err != nil {
			return fmt.Errorf("checkfile: write: %w", err)
		}
	}
	return nil
}
