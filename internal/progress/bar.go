package progress

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewBar returns a byte-count progress bar for hashing a source of the given
// size, writing to stderr so report output on stdout stays clean.
func NewBar(totalBytes int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
