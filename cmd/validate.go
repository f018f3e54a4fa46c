package cmd

import (
	"bytes"
	"fmt"

	"bulk-ingest/core/config"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// validateCmd checks a feed document against the schema
var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Validate a feed document",
	Long:  `Validates a feed document, given as a local path or s3://bucket/key, against the ingestion schema.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		s, err := loadSchema(cfg)
		if err != nil {
			return err
		}
		src, err := newSource(cfg, args[0])
		if err != nil {
			return err
		}
		doc, err := src.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		violations := s.Validate(bytes.NewReader(doc))
		out := cmd.OutOrStdout()
		for _, v := range violations {
			fmt.Fprintln(out, v.String())
		}
		if len(violations) > 0 {
			return errors.Newf("%s: %d schema violations", args[0], len(violations))
		}
		fmt.Fprintf(out, "%s: valid\n", args[0])
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
