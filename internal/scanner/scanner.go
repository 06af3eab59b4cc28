// Package scanner converts a raw FASTQ buffer into the typed token stream
// consumed by the grammar engine.
//
// The scanner is mode-driven: header lines are tokenized under the tagline
// rules, while sequence and quality payloads are classified one whole line
// at a time, because base calls and quality characters are not validly
// tokenized by the generic rules. The grammar engine switches modes through
// token.Source.RescanAs.
package scanner

import (
	"strings"

	"github.com/seqwell/fastqparse/internal/sequence"
	"github.com/seqwell/fastqparse/internal/token"
)

// Punctuation bytes that form their own single-byte tokens on a tagline.
const taglinePunct = "@>#/:_.-=+"

// Scanner tokenizes a single in-memory buffer. It is not safe for
// concurrent use; one scanner serves one parsing session.
type Scanner struct {
	data []byte
	pos  int
	line int
	mode token.ScanMode

	lastLine int
}

// New returns a scanner positioned at the start of data, in tagline mode.
func New(data []byte) *Scanner {
	return &Scanner{data: data, line: 1, lastLine: 1, mode: token.ModeTagline}
}

// RescanAs switches the classification mode for everything not yet consumed.
func (s *Scanner) RescanAs(mode token.ScanMode) {
	s.mode = mode
}

// Text resolves a token span. The slice aliases the scanner's buffer.
func (s *Scanner) Text(t token.Token) []byte {
	return s.data[t.Start : t.Start+t.Length]
}

// Line reports the line the last returned token started on.
func (s *Scanner) Line() int {
	return s.lastLine
}

// Next returns the next token under the current mode. At the end of the
// buffer it returns EndOfText.
func (s *Scanner) Next() token.Token {
	s.lastLine = s.line

	if s.pos >= len(s.data) {
		return s.make(token.EndOfText, s.pos, 0)
	}

	if t, ok := s.lineBreak(); ok {
		return t
	}

	switch s.mode {
	case token.ModeSequence:
		return s.nextSequence()
	case token.ModeQuality:
		return s.nextQuality()
	default:
		return s.nextTagline()
	}
}

func (s *Scanner) make(kind token.Kind, start, length int) token.Token {
	return token.Token{Kind: kind, Start: start, Length: length, Line: s.lastLine}
}

// lineBreak consumes \n, \r\n or \r if the scanner is positioned on one.
func (s *Scanner) lineBreak() (token.Token, bool) {
	b := s.data[s.pos]
	if b != '\n' && b != '\r' {
		return token.Token{}, false
	}
	start := s.pos
	s.pos++
	if b == '\r' && s.pos < len(s.data) && s.data[s.pos] == '\n' {
		s.pos++
	}
	s.line++
	return s.make(token.EndOfLine, start, s.pos-start), true
}

func (s *Scanner) nextTagline() token.Token {
	start := s.pos
	b := s.data[s.pos]

	switch {
	case b == ' ' || b == '\t':
		for s.pos < len(s.data) && (s.data[s.pos] == ' ' || s.data[s.pos] == '\t') {
			s.pos++
		}
		return s.make(token.Whitespace, start, s.pos-start)

	case isDigit(b):
		return s.numberOrCoords(start)

	case isLetter(b):
		s.pos++
		for s.pos < len(s.data) && isAlnum(s.data[s.pos]) {
			s.pos++
		}
		return s.make(token.AlphaNum, start, s.pos-start)

	case strings.IndexByte(taglinePunct, b) >= 0:
		s.pos++
		return s.make(token.GenericToken, start, 1)

	case isPrintable(b):
		for s.pos < len(s.data) && isPrintable(s.data[s.pos]) &&
			!isAlnum(s.data[s.pos]) &&
			strings.IndexByte(taglinePunct, s.data[s.pos]) < 0 {
			s.pos++
		}
		return s.make(token.GenericToken, start, s.pos-start)

	default:
		s.pos++
		return s.make(token.Unrecognized, start, 1)
	}
}

// numberOrCoords scans a digit run, extending it into a coordinate run when
// three or more colon-joined numbers follow without interruption. Shorter
// colon groups stay separate tokens so that Casava taglines keep their
// field structure.
func (s *Scanner) numberOrCoords(start int) token.Token {
	s.pos++
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		s.pos++
	}
	numberEnd := s.pos

	groups := 1
	probe := s.pos
	for probe < len(s.data) && s.data[probe] == ':' &&
		probe+1 < len(s.data) && isDigit(s.data[probe+1]) {
		probe++
		for probe < len(s.data) && isDigit(s.data[probe]) {
			probe++
		}
		groups++
	}
	if groups >= 3 {
		s.pos = probe
		return s.make(token.CoordinateRun, start, s.pos-start)
	}

	s.pos = numberEnd
	return s.make(token.Number, start, s.pos-start)
}

func (s *Scanner) nextSequence() token.Token {
	start := s.pos

	// A '+' opens the quality header; hand the line back to the tagline
	// rules.
	if s.data[s.pos] == '+' {
		s.pos++
		s.mode = token.ModeTagline
		return s.make(token.GenericToken, start, 1)
	}

	end := s.endOfLine()
	run := s.data[start:end]
	s.pos = end

	switch {
	case sequence.IsBaseRun(run):
		return s.make(token.BaseSequenceRun, start, end-start)
	case sequence.IsColorRun(run):
		return s.make(token.ColorspaceRun, start, end-start)
	default:
		return s.make(token.Unrecognized, start, end-start)
	}
}

// nextQuality claims the whole remaining line as one quality run. Range
// checking of the characters belongs to the grammar engine's validator,
// not to classification.
func (s *Scanner) nextQuality() token.Token {
	start := s.pos
	end := s.endOfLine()
	s.pos = end
	return s.make(token.QualityRun, start, end-start)
}

func (s *Scanner) endOfLine() int {
	i := s.pos
	for i < len(s.data) && s.data[i] != '\n' && s.data[i] != '\r' {
		i++
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool { return isDigit(b) || isLetter(b) }

// isPrintable reports whether b is in the visible ASCII range.
func isPrintable(b byte) bool { return b >= '!' && b <= '~' }
