package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/seqwell/fastqparse/pkg/fastq"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a FASTQ file, reporting every malformed record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			session, err := fastq.NewSession(data, flags.config())
			if err != nil {
				return err
			}

			records := 0
			invalid := 0
			for {
				_, err := session.Next()
				if err == nil {
					records++
					continue
				}
				if errors.Is(err, io.EOF) {
					break
				}
				if !errInvalid(err) {
					return err
				}
				invalid++
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
				if rerr := session.Resync(); rerr != nil {
					if errors.Is(rerr, io.EOF) {
						break
					}
					return rerr
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d record(s), %d invalid\n", records, invalid)
			if invalid > 0 {
				return fmt.Errorf("%d invalid record(s)", invalid)
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
