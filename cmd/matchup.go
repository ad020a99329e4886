package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/report"
)

var matchupCmd = &cobra.Command{
	Use:   "matchup <player-character> <opponent-character>",
	Short: "Head-to-head stats between two characters, by stage",
	Args:  cobra.ExactArgs(2),
	RunE:  runMatchup,
}

func runMatchup(cmd *cobra.Command, args []string) error {
	me, err := model.ParseCharacter(args[0])
	if err != nil {
		return err
	}
	opp, err := model.ParseCharacter(args[1])
	if err != nil {
		return err
	}
	e, err := loadEngine()
	if err != nil {
		return err
	}
	rep, err := e.Matchup(me, opp)
	if err != nil {
		return noData(os.Stdout, err)
	}
	report.PrintMatchup(os.Stdout, rep)
	return nil
}
