package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/query"
)

var characterCmd = &cobra.Command{
	Use:     "character <name> [winrate|stages|matchups|overview]",
	Aliases: []string{"char"},
	Short:   "Stats for games played as one character",
	Long: `Report over the games the tracked player played as a character. Names are
case-insensitive and accept common aliases (e.g. "ics", "puff", "dk").`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCharacter,
}

func runCharacter(cmd *cobra.Command, args []string) error {
	c, err := model.ParseCharacter(args[0])
	if err != nil {
		return err
	}
	e, err := loadEngine()
	if err != nil {
		return err
	}
	return renderView(os.Stdout, e, query.CharacterFilter(c), viewArg(args, 1), false)
}
