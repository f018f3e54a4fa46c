package cmd

import (
	"fmt"
	"os"

	"bulk-ingest/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "bulk-ingest",
	Short: "Bulk Ingest Service",
	Long: `Bulk Ingest reads XML feeds of catalog items and turns them into entry
operations on the entry-management service, one bounded invocation at a time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug config for ISO8601 timestamps on CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
