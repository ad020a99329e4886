package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/query"
)

var stageCmd = &cobra.Command{
	Use:   "stage <name> [winrate|characters|matchups|overview]",
	Short: "Stats for games played on one stage",
	Long: `Report over the games played on a stage. Names are case-insensitive and
accept common aliases (e.g. "fd", "bf", "ys", "dl", "fod", "ps").`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStage,
}

func runStage(cmd *cobra.Command, args []string) error {
	s, err := model.ParseStage(args[0])
	if err != nil {
		return err
	}
	e, err := loadEngine()
	if err != nil {
		return err
	}
	return renderView(os.Stdout, e, query.StageFilter(s), viewArg(args, 1), false)
}
