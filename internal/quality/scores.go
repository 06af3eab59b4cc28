package quality

import (
	"fmt"
	"sort"
)

// Quality thresholds.
const (
	QLow       = 10 // 90% accuracy
	QMedium    = 20 // 99% accuracy
	QHigh      = 30 // 99.9% accuracy
	QExcellent = 40 // 99.99% accuracy
)

// Category buckets the overall quality of a read.
type Category int

const (
	// Poor represents quality < 10
	Poor Category = iota
	// Low represents quality 10-20
	Low
	// Medium represents quality 20-30
	Medium
	// High represents quality 30-40
	High
	// Excellent represents quality >= 40
	Excellent
)

func (c Category) String() string {
	switch c {
	case Poor:
		return "Poor"
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Excellent:
		return "Excellent"
	default:
		return "Unknown"
	}
}

// EmptyScoresError is returned when quality scores are empty.
type EmptyScoresError struct{}

func (e *EmptyScoresError) Error() string {
	return "quality scores cannot be empty"
}
func (e *EmptyScoresError) IsQualityError() {}

// Scores holds decoded quality scores for one read.
type Scores struct {
	Values []int
}

// Decode converts an encoded quality string into numeric scores. Each
// character is range-checked against the encoding before subtracting the
// offset. EncodingNone defaults to Phred+33 arithmetic without validation.
func Decode(encoded string, enc Encoding) (*Scores, error) {
	if len(encoded) == 0 {
		return nil, &EmptyScoresError{}
	}

	offset := int(Phred33)
	v := Validator{Encoding: enc}
	if enc != EncodingNone {
		offset = int(enc)
	}

	values := make([]int, len(encoded))
	for i := 0; i < len(encoded); i++ {
		if err := v.Check(encoded[i], i); err != nil {
			return nil, err
		}
		values[i] = int(encoded[i]) - offset
	}
	return &Scores{Values: values}, nil
}

// Len returns the number of quality scores.
func (s *Scores) Len() int {
	return len(s.Values)
}

// Average calculates the average quality score.
func (s *Scores) Average() float64 {
	sum := 0
	for _, score := range s.Values {
		sum += score
	}
	return float64(sum) / float64(len(s.Values))
}

// Median calculates the median quality score.
func (s *Scores) Median() int {
	sorted := make([]int, len(s.Values))
	copy(sorted, s.Values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Min returns the minimum quality score.
func (s *Scores) Min() int {
	min := s.Values[0]
	for _, score := range s.Values[1:] {
		if score < min {
			min = score
		}
	}
	return min
}

// Max returns the maximum quality score.
func (s *Scores) Max() int {
	max := s.Values[0]
	for _, score := range s.Values[1:] {
		if score > max {
			max = score
		}
	}
	return max
}

// CountAtOrAbove counts scores at or above a threshold.
func (s *Scores) CountAtOrAbove(threshold int) int {
	count := 0
	for _, score := range s.Values {
		if score >= threshold {
			count++
		}
	}
	return count
}

// HighQualityRatio calculates the proportion of high-quality bases (Q >= 30).
func (s *Scores) HighQualityRatio() float64 {
	return float64(s.CountAtOrAbove(QHigh)) / float64(len(s.Values))
}

// Categorize buckets the overall quality of the read by its mean score.
func (s *Scores) Categorize() Category {
	avg := s.Average()

	if avg >= float64(QExcellent) {
		return Excellent
	} else if avg >= float64(QHigh) {
		return High
	} else if avg >= float64(QMedium) {
		return Medium
	} else if avg >= float64(QLow) {
		return Low
	}
	return Poor
}

// Statistics summarizes the scores.
func (s *Scores) Statistics() *Stats {
	return &Stats{
		Count:            len(s.Values),
		MinScore:         s.Min(),
		MaxScore:         s.Max(),
		Mean:             s.Average(),
		Median:           s.Median(),
		HighQualityRatio: s.HighQualityRatio(),
		Category:         s.Categorize(),
	}
}

func (s *Scores) String() string {
	return fmt.Sprintf("QualityScores { len: %d, avg: %.1f }", len(s.Values), s.Average())
}

// Stats is a quality statistics summary.
type Stats struct {
	Count            int
	MinScore         int
	MaxScore         int
	Mean             float64
	Median           int
	HighQualityRatio float64
	Category         Category
}

func (s *Stats) String() string {
	return fmt.Sprintf("QualityStats { count: %d, min: %d, max: %d, mean: %.2f, median: %d, high_quality_ratio: %.2f%% }",
		s.Count, s.MinScore, s.MaxScore, s.Mean, s.Median, s.HighQualityRatio*100)
}
