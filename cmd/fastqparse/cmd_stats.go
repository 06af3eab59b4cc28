package main

import (
	"encoding/json"
	"fmt"

	"github.com/seqwell/fastqparse/pkg/fastq"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var flags parseFlags
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Parse a FASTQ file and print run statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			cfg := flags.config()
			records, err := fastq.ParseBytes(data, cfg)
			if err != nil {
				return err
			}

			summary, err := fastq.Summarize(records, fastq.Encoding(cfg.PhredOffset))
			if err != nil {
				return err
			}

			switch outputFormat {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			case "text":
				fmt.Fprintln(cmd.OutOrStdout(), summary)
				return nil
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
