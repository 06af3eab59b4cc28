// Package token defines the lexical tokens exchanged between the tokenizer
// and the grammar engine.
//
// Tokens carry a span (offset + length) into the source buffer rather than a
// copy of the text; the consumer resolves the bytes on demand through the
// Source that produced them.
package token

// Kind classifies a lexical token. The set is closed.
type Kind int

const (
	// EndOfText marks the end of the input buffer.
	EndOfText Kind = iota
	// Number is a run of ASCII digits.
	Number
	// AlphaNum is a run of letters and digits starting with a letter.
	AlphaNum
	// Whitespace is a run of spaces and tabs.
	Whitespace
	// EndOfLine is a line terminator (\n, \r\n or \r).
	EndOfLine
	// BaseSequenceRun is a full line of nucleotide base calls.
	BaseSequenceRun
	// ColorspaceRun is a full line of SOLiD color calls (leading base,
	// then digits and '.').
	ColorspaceRun
	// GenericToken is a punctuation byte or any other printable run that
	// fits no more specific class.
	GenericToken
	// QualityRun is a full line of quality characters.
	QualityRun
	// CoordinateRun is a colon-joined group of three or more numbers,
	// as found inside Illumina spot names.
	CoordinateRun
	// Unrecognized covers bytes no scan mode can classify.
	Unrecognized
)

var kindNames = map[Kind]string{
	EndOfText:       "end of input",
	Number:          "number",
	AlphaNum:        "alphanumeric",
	Whitespace:      "whitespace",
	EndOfLine:       "end of line",
	BaseSequenceRun: "base sequence",
	ColorspaceRun:   "colorspace sequence",
	GenericToken:    "token",
	QualityRun:      "quality run",
	CoordinateRun:   "coordinates",
	Unrecognized:    "unrecognized input",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a classified span of the source buffer. Tokens are immutable;
// the bytes they reference are owned by the Source.
type Token struct {
	Kind   Kind
	Start  int
	Length int
	Line   int
}

// ScanMode selects how the tokenizer classifies the remainder of the
// current line. The grammar engine switches modes at line boundaries:
// sequence and quality payloads are not validly tokenized by the tagline
// rules.
type ScanMode int

const (
	// ModeTagline tokenizes header and quality-header lines.
	ModeTagline ScanMode = iota
	// ModeSequence classifies each full line as a base or colorspace run.
	ModeSequence
	// ModeQuality classifies each full line as a quality run.
	ModeQuality
)

func (m ScanMode) String() string {
	switch m {
	case ModeTagline:
		return "tagline"
	case ModeSequence:
		return "sequence"
	case ModeQuality:
		return "quality"
	default:
		return "unknown"
	}
}

// Source is the pull interface the grammar engine consumes tokens from.
//
// RescanAs is the narrow reclassification callback: it tells the tokenizer
// to re-scan the not-yet-consumed remainder of the current line under a
// different mode. It is not general backtracking.
type Source interface {
	// Next returns the next token. At the end of the input it returns a
	// token of kind EndOfText, not an error.
	Next() Token
	// RescanAs switches the scan mode for the remainder of the current
	// line and all following lines until the next switch.
	RescanAs(mode ScanMode)
	// Text resolves a token's span to the referenced bytes. The returned
	// slice aliases the source buffer and must be copied if retained.
	Text(t Token) []byte
	// Line reports the 1-based line number of the last returned token.
	Line() int
}
