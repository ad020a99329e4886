package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/config"
	"github.com/pable/slp-stats/internal/corpus"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after flag overrides, as TOML, followed by the cache
file it resolves to. Use the set-code and set-dir subcommands to persist the
tracked code and replay directory.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configSetCodeCmd = &cobra.Command{
	Use:   "set-code <NAME#NUMBER>",
	Short: "Persist the tracked identity code",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetCode,
}

var configSetDirCmd = &cobra.Command{
	Use:   "set-dir <path>",
	Short: "Persist the replay directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetDir,
}

func init() {
	configCmd.AddCommand(configSetCodeCmd)
	configCmd.AddCommand(configSetDirCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	cMuted.Fprintf(os.Stdout, "# %s\n", cfgPath)
	os.Stdout.Write(data)
	if cfg.Player.Code != "" {
		cMuted.Fprintf(os.Stdout, "\n# cache: %s\n", corpus.CachePath(cfg.Replays.Dir, cfg.Player.Code))
	}
	return nil
}

func runConfigSetCode(cmd *cobra.Command, args []string) error {
	code, err := config.ParseCode(args[0])
	if err != nil {
		return err
	}
	return updateConfigFile(func(c *config.Config) { c.Player.Code = code })
}

func runConfigSetDir(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("replay dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("replay dir %s is not a directory", dir)
	}
	return updateConfigFile(func(c *config.Config) { c.Replays.Dir = dir })
}

// updateConfigFile applies fn to the file's own values, without flag
// overrides, and saves it.
func updateConfigFile(fn func(*config.Config)) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	fn(c)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Save(cfgPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Saved %s\n", cfgPath)
	return nil
}
