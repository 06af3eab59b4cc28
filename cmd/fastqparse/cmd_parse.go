package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/seqwell/fastqparse/pkg/fastq"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var flags parseFlags
	var outputFormat string
	var skipInvalid bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a FASTQ file and dump the records",
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

			sink := &printSink{format: outputFormat, out: cmd.OutOrStdout()}
			if outputFormat != "json" && outputFormat != "text" {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			skipped, err := session.Drain(sink, skipInvalid)
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d invalid record(s)\n", skipped)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "skip records with syntax errors instead of stopping")

	return cmd
}

// readInput reads a file, or stdin when the argument is "-".
func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// printSink streams records to the output as they are parsed.
type printSink struct {
	format string
	out    io.Writer
	enc    *json.Encoder
}

func (p *printSink) Write(rec *fastq.Record) error {
	if p.format == "json" {
		if p.enc == nil {
			p.enc = json.NewEncoder(p.out)
		}
		return p.enc.Encode(rec)
	}

	fmt.Fprintf(p.out, "%s", rec.Name)
	if rec.ReadNumber != 0 {
		fmt.Fprintf(p.out, " read=%d", rec.ReadNumber)
	}
	if rec.SpotGroup != "" {
		fmt.Fprintf(p.out, " group=%s", rec.SpotGroup)
	}
	if rec.IsColorspace {
		fmt.Fprint(p.out, " colorspace")
	}
	if rec.LowQuality {
		fmt.Fprint(p.out, " low-quality")
	}
	fmt.Fprintf(p.out, " len=%d\n", len(rec.Read))
	return nil
}

var _ fastq.Sink = (*printSink)(nil)

// errInvalid reports whether err is a recoverable syntax error.
func errInvalid(err error) bool {
	var syntaxErr *fastq.SyntaxError
	return errors.As(err, &syntaxErr)
}
