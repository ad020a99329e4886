package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/query"
)

var playerCmd = &cobra.Command{
	Use:   "player [winrate|characters|stages|matchups|overview]",
	Short: "Stats over every game of the tracked player",
	Long: `Report over every game in the corpus. The default view is winrate; overview
lists the most played and best character, opponent and stage. A pick only
counts as "best" with more than 20 games.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{viewWinrate, viewCharacters, viewStages, viewMatchups, viewOverview},
	RunE:      runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	e, err := loadEngine()
	if err != nil {
		return err
	}
	return renderView(os.Stdout, e, query.Overall{}, viewArg(args, 0), false)
}
