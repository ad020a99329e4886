package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/corpus"
	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/parser"
	"github.com/pable/slp-stats/internal/query"
)

var scanVerbose bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Classify new replays and update the cache",
	Long: `Walk the replay directory, classify every replay not already in the cache
and rewrite the cache. Files that fail to decode or classify are reported and
skipped.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "report foreign and non-replay files too")
}

func runScan(cmd *cobra.Command, args []string) error {
	sum, err := scanCorpus(os.Stdout)
	if err != nil {
		return err
	}
	printScanSummary(os.Stdout, sum)
	return nil
}

// scanCorpus runs one incremental scan of the configured directory.
func scanCorpus(w io.Writer) (*corpus.Summary, error) {
	code, err := requireCode()
	if err != nil {
		return nil, err
	}
	s := corpus.NewScanner(parser.Decoder{}, cfg.Replays.Dir, code)
	s.Extension = cfg.Replays.Extension
	s.Observer = &progressObserver{
		w:       w,
		errW:    os.Stderr,
		every:   cfg.Scan.ProgressEvery,
		verbose: scanVerbose || cfg.Scan.Verbose,
	}
	sum, err := s.Scan(cfg.Replays.Dir)
	var perr *corpus.PersistError
	if errors.As(err, &perr) {
		cWarn.Fprintf(os.Stderr, "warning: %v; results are not cached\n", perr)
	} else if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.Replays.Dir, err)
	}
	fmt.Fprintf(w, "%d already cached\n", sum.Cached)
	return sum, nil
}

// loadEngine scans and returns a query engine over the result.
func loadEngine() (*query.Engine, error) {
	sum, err := scanCorpus(os.Stdout)
	if err != nil {
		return nil, err
	}
	return query.New(sum.Records), nil
}

func printScanSummary(w io.Writer, sum *corpus.Summary) {
	fmt.Fprintf(w, "\n%d games in corpus: %d added, %d cached, %d foreign, %d failed\n",
		len(sum.Records), sum.Added, sum.Cached, sum.NotPlayer, sum.Failed)
}

// progressObserver prints scan progress the way the scan has always
// reported it: failures as they happen and a counter every N added games.
type progressObserver struct {
	w       io.Writer
	errW    io.Writer
	every   int
	verbose bool
}

func (o *progressObserver) CacheLoaded(state corpus.CacheState, records int, err error) {
	switch state {
	case corpus.CacheOutdated:
		fmt.Fprintln(o.w, "Cache detected but out of date. Rebuilding.")
	case corpus.CacheCorrupt, corpus.CacheUnreadable:
		cWarn.Fprintf(o.errW, "Cache file is unreadable (%v). Rebuilding.\n", err)
	case corpus.CacheLoaded:
		if o.verbose {
			fmt.Fprintf(o.w, "Loaded %d cached games.\n", records)
		}
	}
}

func (o *progressObserver) FileProcessed(ev corpus.FileEvent) {
	switch ev.Status {
	case corpus.StatusFailed:
		cWarn.Fprintf(o.errW, "error %v when parsing game %s\n", describeErr(ev.Err), filepath.Base(ev.Path))
	case corpus.StatusNotPlayer:
		if o.verbose {
			fmt.Fprintf(o.w, "Game does not contain player. Skipping %s.\n", filepath.Base(ev.Path))
		}
	case corpus.StatusSkipped:
		if o.verbose {
			cMuted.Fprintf(o.w, "skip %s\n", filepath.Base(ev.Path))
		}
	case corpus.StatusAdded:
		if o.every > 0 && ev.Added%o.every == 0 {
			fmt.Fprintf(o.w, "Processed game number: %d\n", ev.Added)
		}
	}
}

// describeErr drops the path from decode errors, which are already
// reported next to the file name.
func describeErr(err error) error {
	var de *model.DecodeError
	if errors.As(err, &de) {
		return de.Err
	}
	return err
}
