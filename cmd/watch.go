package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/corpus"
	"github.com/pable/slp-stats/internal/query"
	"github.com/pable/slp-stats/internal/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan whenever a new replay is written",
	Long: `Run a scan, then watch the replay directory and rescan each time replay
files are created or written. Writes are debounced (see [watch] debounce in
the config) so an in-progress game triggers one rescan after it ends.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cfg.Debounce()
	if err != nil {
		return err
	}
	if err := watchScan(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cMuted.Fprintf(os.Stdout, "watching %s (Ctrl-C to stop)\n", cfg.Replays.Dir)
	err = corpus.Watch(ctx, cfg.Replays.Dir, cfg.Replays.Extension, debounce, watchScan)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stdout)
		return nil
	}
	return err
}

// watchScan rescans and prints the overall winrate.
func watchScan() error {
	sum, err := scanCorpus(os.Stdout)
	if err != nil {
		return err
	}
	if sum.Added == 0 {
		return nil
	}
	report.PrintRecords(os.Stdout, sum.Records[len(sum.Records)-sum.Added:])
	wl, err := query.New(sum.Records).Winrate(query.Overall{})
	if err != nil {
		return noData(os.Stdout, err)
	}
	report.PrintWinrate(os.Stdout, query.Overall{}.Label(), wl)
	return nil
}
