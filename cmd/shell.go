package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/model"
	"github.com/pable/slp-stats/internal/query"
	"github.com/pable/slp-stats/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Scan once, then answer queries against the corpus. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	e, err := loadEngine()
	if err != nil {
		return err
	}

	fmt.Println()
	cGreeting.Printf("slpstats shell for %s\n", cfg.Player.Code)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("slpstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := strings.ToLower(tokens[0]), tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "player":
			shellView(e, query.Overall{}, args)
		case "character", "char":
			name, rest, ok := shellName(args, "character <name> [winrate|stages|matchups|overview]")
			if !ok {
				continue
			}
			c, err := model.ParseCharacter(name)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			shellView(e, query.CharacterFilter(c), rest)
		case "stage":
			name, rest, ok := shellName(args, "stage <name> [winrate|characters|matchups|overview]")
			if !ok {
				continue
			}
			s, err := model.ParseStage(name)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			shellView(e, query.StageFilter(s), rest)
		case "matchup":
			shellMatchup(e, args)
		case "last":
			shellLast(e, args)
		case "names":
			shellNames(args)
		case "rescan", "scan":
			if next, err := loadEngine(); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			} else {
				e = next
				cMuted.Printf("%d games loaded\n", e.Len())
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"player [view]", "every game; view is winrate, characters, stages, matchups or overview"},
		{"character <name> [view]", "games played as a character"},
		{"stage <name> [view]", "games played on a stage"},
		{"matchup <mine> [vs] <theirs>", "head-to-head by stage"},
		{"last <n>", "the n most recently added games"},
		{"names [characters|stages]", "accepted names and aliases"},
		{"rescan", "pick up new replays"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-32s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
	cMuted.Println("  names are case-insensitive; see 'names' for aliases such as fd, bf, falcon, gnw")
	fmt.Println()
}

func shellNames(args []string) {
	which := ""
	if len(args) > 0 {
		which = strings.ToLower(args[0])
	}
	switch which {
	case "":
		printNames(os.Stdout, model.Characters)
		fmt.Println()
		printNames(os.Stdout, model.Stages)
	case "characters", "chars":
		printNames(os.Stdout, model.Characters)
	case "stages":
		printNames(os.Stdout, model.Stages)
	default:
		cError.Fprintln(os.Stderr, "usage: names [characters|stages]")
	}
}

// printNames lists a domain's display names with their aliases.
func printNames[T ~uint8](w io.Writer, d *model.Domain[T]) {
	fmt.Fprintf(w, "%ss:\n", d.Kind())
	for _, v := range d.Values() {
		if aliases := d.Aliases(v); len(aliases) > 0 {
			fmt.Fprintf(w, "  %s (%s)\n", d.Name(v), strings.Join(aliases, ", "))
		} else {
			fmt.Fprintf(w, "  %s\n", d.Name(v))
		}
	}
}

// shellName splits "<name> [view]" where the name itself may be several
// words, e.g. "final destination stages". The last token is taken as the
// view when it names one.
func shellName(args []string, usage string) (name string, rest []string, ok bool) {
	if len(args) == 0 {
		cError.Fprintf(os.Stderr, "usage: %s\n", usage)
		return "", nil, false
	}
	if len(args) > 1 && isView(args[len(args)-1]) {
		rest = args[len(args)-1:]
		args = args[:len(args)-1]
	}
	return strings.Join(args, " "), rest, true
}

func isView(s string) bool {
	switch strings.ToLower(s) {
	case viewWinrate, viewCharacters, viewStages, viewMatchups, viewOverview:
		return true
	}
	return false
}

func shellView(e *query.Engine, f query.Filter, args []string) {
	if err := renderView(os.Stdout, e, f, viewArg(args, 0), true); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellMatchup(e *query.Engine, args []string) {
	me, opp, err := splitMatchup(args)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	rep, err := e.Matchup(me, opp)
	if err != nil {
		noData(os.Stdout, err)
		return
	}
	report.PrintWinrate(os.Stdout, fmt.Sprintf("%s vs. %s", rep.Player, rep.Opponent), rep.Total)
	report.PrintBucketLines(os.Stdout, report.PrefixStage, rep.Stages)
}

// splitMatchup resolves "<mine> [vs] <theirs>" where either name may span
// several words. Without "vs" the first split point where both sides name a
// character wins.
func splitMatchup(args []string) (me, opp model.Character, err error) {
	usage := fmt.Errorf("usage: matchup <mine> [vs] <theirs>")
	for i, a := range args {
		if strings.EqualFold(a, "vs") || strings.EqualFold(a, "vs.") {
			if i == 0 || i == len(args)-1 {
				return 0, 0, usage
			}
			if me, err = model.ParseCharacter(strings.Join(args[:i], " ")); err != nil {
				return 0, 0, err
			}
			if opp, err = model.ParseCharacter(strings.Join(args[i+1:], " ")); err != nil {
				return 0, 0, err
			}
			return me, opp, nil
		}
	}
	if len(args) < 2 {
		return 0, 0, usage
	}
	for i := 1; i < len(args); i++ {
		m, err1 := model.ParseCharacter(strings.Join(args[:i], " "))
		o, err2 := model.ParseCharacter(strings.Join(args[i:], " "))
		if err1 == nil && err2 == nil {
			return m, o, nil
		}
	}
	return 0, 0, fmt.Errorf("could not read two characters from %q", strings.Join(args, " "))
}

func shellLast(e *query.Engine, args []string) {
	if len(args) != 1 {
		cError.Fprintln(os.Stderr, "usage: last <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		cError.Fprintf(os.Stderr, "invalid count %q\n", args[0])
		return
	}
	recs, err := e.Last(n)
	if err != nil {
		noData(os.Stdout, err)
		return
	}
	report.PrintRecords(os.Stdout, recs)
}
