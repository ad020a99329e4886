// Package main is the entry point for the slpstats CLI tool, which scans
// Slippi replay files and reports a player's win/loss statistics.
package main

import "github.com/pable/slp-stats/cmd"

func main() {
	cmd.Execute()
}
