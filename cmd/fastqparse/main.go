package main

import (
	"os"

	"github.com/seqwell/fastqparse/pkg/fastq"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "fastqparse",
		Short:   "Parse and inspect FASTQ sequencing reads",
		Version: fastq.Version(),
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newValidateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseFlags holds the parser configuration flags shared by the
// parse, stats and validate commands.
type parseFlags struct {
	phredOffset int
	maxPhred    int
	pacbio      bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.phredOffset, "phred", 33, "Phred offset for quality validation (0 to disable, 33 or 64)")
	cmd.Flags().IntVar(&f.maxPhred, "max-phred", 0, "raw quality ceiling character (0 for the encoding default)")
	cmd.Flags().BoolVar(&f.pacbio, "pacbio", false, "treat headers as PacBio names (slashes fold into the name)")
}

func (f *parseFlags) config() fastq.Config {
	cfg := fastq.Config{
		PhredOffset: f.phredOffset,
		MaxPhred:    byte(f.maxPhred),
	}
	if f.pacbio {
		cfg.DefaultReadNumber = fastq.PacBioReadNumber
	}
	return cfg
}
