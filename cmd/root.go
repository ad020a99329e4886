package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/slp-stats/internal/config"
)

var (
	cfgPath  string
	flagCode string
	flagDir  string
	dbPath   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "slpstats",
	Short: "Slippi replay win/loss stats",
	Long: `Scan a directory of Slippi .slp replays for one player and report win/loss
statistics by character, stage and opponent. Classified games are cached next
to the replays so later runs only decode new files.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagCode, "code", "", "identity code of the tracked player (NAME#NUMBER)")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "replay directory")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default from config)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(matchupCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if flagCode != "" {
		c.Player.Code = flagCode
	}
	if flagDir != "" {
		c.Replays.Dir = flagDir
	}
	if dbPath != "" {
		c.Storage.DBPath = dbPath
	}
	if c.Player.Code != "" {
		if c.Player.Code, err = config.ParseCode(c.Player.Code); err != nil {
			return err
		}
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	dbPath = c.Storage.DBPath
	return nil
}

// requireCode returns the tracked code or a hint on how to set it.
func requireCode() (string, error) {
	if cfg.Player.Code == "" {
		return "", fmt.Errorf("no identity code set: pass --code NAME#NUMBER or run 'slpstats config set-code'")
	}
	return cfg.Player.Code, nil
}

// ensureDBDir creates the directory holding the SQLite database.
func ensureDBDir() error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}
