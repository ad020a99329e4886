package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/report"
)

var lastCmd = &cobra.Command{
	Use:   "last <n>",
	Short: "Show the n most recently added games",
	Args:  cobra.ExactArgs(1),
	RunE:  runLast,
}

func runLast(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid count %q", args[0])
	}
	e, err := loadEngine()
	if err != nil {
		return err
	}
	recs, err := e.Last(n)
	if err != nil {
		return noData(os.Stdout, err)
	}
	report.PrintRecordTable(os.Stdout, recs)
	return nil
}
