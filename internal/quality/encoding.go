// Package quality provides Phred quality encodings and score handling for
// sequencing reads.
//
// Phred quality scores are logarithmically related to base-calling error
// probabilities:
//
//	Q = -10 * log10(P_error)
//
// A quality character encodes a score as an ASCII value offset by 33
// (Illumina 1.8+) or 64 (older Illumina pipelines). Validation is a range
// check on the raw character, performed inline while a record's quality
// span is accumulated.
package quality

import "fmt"

// Encoding selects the active Phred offset. The zero value disables
// validation entirely.
type Encoding int

const (
	// EncodingNone performs no validation.
	EncodingNone Encoding = 0
	// Phred33 is the Illumina 1.8+ encoding ('!' .. 'J').
	Phred33 Encoding = 33
	// Phred64 is the legacy Illumina encoding ('@' .. 'h').
	Phred64 Encoding = 64
)

// Character bounds per encoding.
const (
	MinPhred33 byte = 33  // '!'
	MaxPhred33 byte = 74  // 'J'
	MinPhred64 byte = 64  // '@'
	MaxPhred64 byte = 104 // 'h'
)

func (e Encoding) String() string {
	switch e {
	case Phred33:
		return "PHRED_33"
	case Phred64:
		return "PHRED_64"
	default:
		return "NONE"
	}
}

// Floor returns the lowest valid quality character for the encoding.
func (e Encoding) Floor() byte {
	if e == Phred64 {
		return MinPhred64
	}
	return MinPhred33
}

// Ceiling returns the highest valid quality character for the encoding.
func (e Encoding) Ceiling() byte {
	if e == Phred64 {
		return MaxPhred64
	}
	return MaxPhred33
}

// QualityError is the marker interface for quality errors.
type QualityError interface {
	error
	IsQualityError()
}

// RangeError is returned when a quality character falls outside the valid
// range of the active encoding.
type RangeError struct {
	Char     byte
	Position int
	Encoding Encoding
	Floor    byte
	Ceiling  byte
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("quality character '%c' (0x%02x) at position %d is outside %s range [%d, %d]",
		e.Char, e.Char, e.Position, e.Encoding, e.Floor, e.Ceiling)
}

func (e *RangeError) IsQualityError() {}

// Validator checks quality characters against an encoding's range.
//
// MaxChar, when nonzero, overrides the encoding's upper bound with a raw
// character code; the floor always comes from the encoding.
type Validator struct {
	Encoding Encoding
	MaxChar  byte
}

// Check validates one quality character at the given position within its
// run. With EncodingNone it always succeeds. O(1) per character.
func (v Validator) Check(c byte, pos int) error {
	if v.Encoding == EncodingNone {
		return nil
	}
	floor := v.Encoding.Floor()
	ceiling := v.Encoding.Ceiling()
	if v.MaxChar != 0 {
		ceiling = v.MaxChar
	}
	if c < floor || c > ceiling {
		return &RangeError{
			Char:     c,
			Position: pos,
			Encoding: v.Encoding,
			Floor:    floor,
			Ceiling:  ceiling,
		}
	}
	return nil
}
