// Package stats provides aggregate statistics over a run of parsed
// FASTQ records.
package stats

import (
	"fmt"
	"sort"

	"github.com/seqwell/fastqparse/internal/grammar"
	"github.com/seqwell/fastqparse/internal/quality"
	"github.com/seqwell/fastqparse/internal/sequence"
)

// RunStats summarizes one parsing run.
type RunStats struct {
	Records int

	// Read number distribution (canonical {0,1,2} values).
	Unnumbered int
	Primary    int
	Secondary  int

	WithSpotGroup int
	LowQuality    int
	Colorspace    int

	TotalBases   int
	MinLength    int
	MaxLength    int
	MeanLength   float64
	MedianLength int
	N50          int

	// MeanGCContent covers base-space records only.
	MeanGCContent float64

	// MeanQuality is the mean decoded score across all records.
	MeanQuality float64
}

// FromRecords calculates statistics for a run of records. Quality scores
// are decoded with enc; EncodingNone falls back to Phred+33 arithmetic.
func FromRecords(records []*grammar.Record, enc quality.Encoding) (*RunStats, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to summarize")
	}

	s := &RunStats{Records: len(records)}

	lengths := make([]int, 0, len(records))
	gcSum := 0.0
	gcCount := 0
	qualSum := 0.0
	qualCount := 0

	for _, rec := range records {
		switch rec.ReadNumber {
		case 1:
			s.Primary++
		case 2:
			s.Secondary++
		default:
			s.Unnumbered++
		}
		if rec.SpotGroup != "" {
			s.WithSpotGroup++
		}
		if rec.LowQuality {
			s.LowQuality++
		}
		if rec.IsColorspace {
			s.Colorspace++
		} else {
			gcSum += sequence.GCContent(rec.Read)
			gcCount++
		}

		lengths = append(lengths, len(rec.Read))
		s.TotalBases += len(rec.Read)

		if rec.Quality != "" {
			scores, err := quality.Decode(rec.Quality, enc)
			if err != nil {
				return nil, fmt.Errorf("record %q: %w", rec.Name, err)
			}
			qualSum += scores.Average()
			qualCount++
		}
	}

	sort.Ints(lengths)
	s.MinLength = lengths[0]
	s.MaxLength = lengths[len(lengths)-1]
	s.MeanLength = float64(s.TotalBases) / float64(len(lengths))
	s.MedianLength = median(lengths)
	s.N50 = n50(lengths, s.TotalBases)

	if gcCount > 0 {
		s.MeanGCContent = gcSum / float64(gcCount)
	}
	if qualCount > 0 {
		s.MeanQuality = qualSum / float64(qualCount)
	}

	return s, nil
}

// median expects lengths to be sorted.
func median(lengths []int) int {
	mid := len(lengths) / 2
	if len(lengths)%2 == 0 {
		return (lengths[mid-1] + lengths[mid]) / 2
	}
	return lengths[mid]
}

// n50 is the length L such that reads of length >= L cover at least half
// of the total bases. Expects lengths to be sorted ascending.
func n50(lengths []int, totalBases int) int {
	half := totalBases / 2
	covered := 0
	for i := len(lengths) - 1; i >= 0; i-- {
		covered += lengths[i]
		if covered >= half {
			return lengths[i]
		}
	}
	return 0
}

func (s *RunStats) String() string {
	return fmt.Sprintf(`RunStats {
  records: %d (primary: %d, secondary: %d, unnumbered: %d)
  spot groups: %d, low quality: %d, colorspace: %d
  bases: %d, length: %d-%d (mean %.1f, median %d, N50 %d)
  mean GC: %.1f%%, mean quality: %.1f
}`, s.Records, s.Primary, s.Secondary, s.Unnumbered,
		s.WithSpotGroup, s.LowQuality, s.Colorspace,
		s.TotalBases, s.MinLength, s.MaxLength, s.MeanLength, s.MedianLength, s.N50,
		s.MeanGCContent*100, s.MeanQuality)
}
