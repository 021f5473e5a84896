package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file.asn>...",
	Short: "Check that .asn files survive a decode and re-encode unchanged",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := newRunStats()
		options := codecOptions(cfg)

		var failed []string
		err := forEachInput(args, progressEnabled(cfg), func(input string) error {
			diff, dir, err := verifyFile(input, options)
			if err != nil {
				return err
			}
			if diff >= 0 {
				slog.Warn("Round trip differs", "input", input, "offset", fmt.Sprintf("0x%x", diff), "at", describeOffset(dir, diff))
				failed = append(failed, input)
			} else {
				slog.Info("Round trip identical", "input", input, "entries", dir.EntryCount)
			}
			stats.add(dir, 0, 0)
			return nil
		})
		if err != nil {
			return err
		}

		stats.print()
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files do not round-trip", len(failed), len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
