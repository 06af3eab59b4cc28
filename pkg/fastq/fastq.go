// Package fastq provides a high-level API for parsing FASTQ sequencing
// reads into structured spot records.
//
// The parser auto-detects the header convention a file uses (legacy
// Illumina "/N" suffixes, Casava 1.8 taglines, PacBio coordinate-style
// names) from a single grammar, enforces per-file consistency of
// secondary read numbers, and validates quality characters against a
// configurable Phred range.
//
// Example usage:
//
//	records, err := fastq.ParseFile("reads.fastq", fastq.Config{PhredOffset: 33})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range records {
//	    fmt.Printf("%s read=%d len=%d\n", rec.Name, rec.ReadNumber, len(rec.Read))
//	}
package fastq

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/seqwell/fastqparse/internal/grammar"
	"github.com/seqwell/fastqparse/internal/quality"
	"github.com/seqwell/fastqparse/internal/scanner"
	"github.com/seqwell/fastqparse/internal/stats"
)

// Re-export types for convenience
type (
	Record        = grammar.Record
	Config        = grammar.Config
	Sink          = grammar.Sink
	SyntaxError   = grammar.SyntaxError
	Encoding      = quality.Encoding
	QualityScores = quality.Scores
	QualityStats  = quality.Stats
	RunStats      = stats.RunStats
)

// Constants
const (
	PacBioReadNumber = grammar.PacBioReadNumber

	EncodingNone = quality.EncodingNone
	Phred33      = quality.Phred33
	Phred64      = quality.Phred64
)

// ErrSessionAborted re-exports the fatal-session sentinel.
var ErrSessionAborted = grammar.ErrSessionAborted

// Session parses one input with its own file-scoped state. Sessions are
// single-threaded; independent inputs get independent sessions.
type Session struct {
	engine *grammar.Engine
}

// NewSession builds a session over an in-memory buffer.
func NewSession(data []byte, cfg Config) (*Session, error) {
	state, err := grammar.NewState(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{engine: grammar.NewEngine(scanner.New(data), state)}, nil
}

// Next returns the next record, io.EOF at the clean end of input, a
// *SyntaxError for a malformed record, or a fatal semantic error.
func (s *Session) Next() (*Record, error) {
	return s.engine.NextRecord()
}

// Resync skips input up to the next header line after a syntax error.
func (s *Session) Resync() error {
	return s.engine.Resync()
}

// Err returns the fatal error that stopped the session, if any.
func (s *Session) Err() error {
	return s.engine.State().Err()
}

// Drain feeds every remaining record to sink. With skipInvalid set,
// records with syntax errors are skipped (resynchronizing at the next
// header) and counted; fatal errors always abort.
func (s *Session) Drain(sink Sink, skipInvalid bool) (skipped int, err error) {
	for {
		rec, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return skipped, nil
			}
			var syntaxErr *SyntaxError
			if skipInvalid && errors.As(err, &syntaxErr) {
				skipped++
				if rerr := s.Resync(); rerr != nil {
					if errors.Is(rerr, io.EOF) {
						return skipped, nil
					}
					return skipped, rerr
				}
				continue
			}
			return skipped, err
		}
		if err := sink.Write(rec); err != nil {
			return skipped, fmt.Errorf("record sink: %w", err)
		}
	}
}

// collector is the trivial in-memory sink.
type collector struct {
	records []*Record
}

func (c *collector) Write(rec *Record) error {
	c.records = append(c.records, rec)
	return nil
}

// ParseBytes parses a whole in-memory buffer.
func ParseBytes(data []byte, cfg Config) ([]*Record, error) {
	session, err := NewSession(data, cfg)
	if err != nil {
		return nil, err
	}
	sink := &collector{}
	if _, err := session.Drain(sink, false); err != nil {
		return nil, err
	}
	return sink.records, nil
}

// ParseReader parses everything readable from r.
func ParseReader(r io.Reader, cfg Config) ([]*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return ParseBytes(data, cfg)
}

// ParseFile parses a FASTQ file.
func ParseFile(filename string, cfg Config) ([]*Record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, cfg)
}

// DecodeQuality decodes an encoded quality string into numeric scores.
func DecodeQuality(encoded string, enc Encoding) (*QualityScores, error) {
	return quality.Decode(encoded, enc)
}

// Summarize calculates run statistics for parsed records.
func Summarize(records []*Record, enc Encoding) (*RunStats, error) {
	return stats.FromRecords(records, enc)
}

// Version returns the library version.
func Version() string {
	return "1.0.0"
}
