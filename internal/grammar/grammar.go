// Package grammar implements the FASTQ header/record grammar engine.
//
// The engine drives a fixed left-to-right grammar over an externally
// produced token stream, one record at a time:
//
//	record := header sequenceLines '+' qualityHeader? qualityLines
//
// Three incompatible header conventions are recognized from the same
// grammar without prior knowledge of which one a file uses: the legacy
// Illumina "/N" read-number suffix, the Casava 1.8 seven-field tagline and
// PacBio coordinate-style names with embedded slashes. Disambiguation
// relies on file-scoped running state (State), not per-record lookahead.
//
// Syntax errors are recoverable: the engine reports them for the current
// record and the caller decides whether to Resync at the next header.
// Semantic violations (quality out of range, secondary read-number
// inconsistency) are fatal and stop the whole session.
package grammar

import (
	"fmt"
	"io"

	"github.com/seqwell/fastqparse/internal/token"
)

// Engine parses records from a token source. One engine serves one input
// stream; parsing is strictly sequential within a session.
type Engine struct {
	src   token.Source
	state *State
	acc   accumulator

	pending token.Token
	unlexed bool
}

// NewEngine builds an engine over src with the given session state.
func NewEngine(src token.Source, state *State) *Engine {
	return &Engine{src: src, state: state}
}

// State exposes the session state, mainly for inspecting fatal errors.
func (e *Engine) State() *State {
	return e.state
}

// NextRecord parses and returns the next record. It returns io.EOF at the
// clean end of input, a *SyntaxError for a malformed record (the engine
// stays usable; see Resync), and ErrSessionAborted once a fatal semantic
// error has been recorded.
func (e *Engine) NextRecord() (*Record, error) {
	if e.state.Err() != nil {
		return nil, ErrSessionAborted
	}

	e.src.RescanAs(token.ModeTagline)

	tok := e.next()
	for tok.Kind == token.EndOfLine {
		tok = e.next()
	}
	if tok.Kind == token.EndOfText {
		return nil, io.EOF
	}

	e.acc.reset(tok.Line)
	switch {
	case e.isByte(tok, '@'):
		// nucleotide record
	case e.isByte(tok, '>'):
		e.acc.colorspace = true
	default:
		return nil, e.syntaxErr(tok, "'@'", "'>'")
	}

	if err := e.parseHeader(); err != nil {
		return nil, err
	}
	if err := e.parseSequenceLines(); err != nil {
		return nil, err
	}
	if err := e.parseQualityHeader(); err != nil {
		return nil, err
	}
	if err := e.parseQualityLines(); err != nil {
		return nil, err
	}

	return e.acc.finish(), nil
}

// Resync discards input up to the next line that starts with a header
// marker, so the caller can skip a malformed record. Returns io.EOF when
// no further header exists.
func (e *Engine) Resync() error {
	e.src.RescanAs(token.ModeTagline)
	tok := e.next()
	for {
		switch tok.Kind {
		case token.EndOfText:
			return io.EOF
		case token.EndOfLine:
			nxt := e.next()
			if nxt.Kind == token.EndOfText {
				return io.EOF
			}
			if e.isByte(nxt, '@') || e.isByte(nxt, '>') {
				e.unread(nxt)
				return nil
			}
			tok = nxt
		default:
			tok = e.next()
		}
	}
}

// parseHeader consumes the name-and-coordinates production, the optional
// spot group and the read-number-or-tail production, through the end of
// the header line.
func (e *Engine) parseHeader() error {
	for {
		tok := e.next()
		switch {
		case tok.Kind == token.AlphaNum || tok.Kind == token.Number || tok.Kind == token.CoordinateRun:
			e.acc.growName(e.text(tok))

		case e.isNamePunct(tok):
			e.acc.growName(e.text(tok))

		case e.isByte(tok, '#'):
			if err := e.parseSpotGroup(tok); err != nil {
				return err
			}

		case e.isByte(tok, '/'):
			if len(e.acc.name) == 0 {
				return e.syntaxErr(tok, "spot name")
			}
			if e.state.IsPacBio() {
				// PacBio names legitimately end in "/zmw/start_end";
				// the slash continues the name instead of separating
				// a read number.
				e.acc.growName(e.text(tok))
				continue
			}
			return e.parseSlashReadNumber(tok)

		case tok.Kind == token.Whitespace:
			if len(e.acc.name) == 0 {
				return e.syntaxErr(tok, "spot name")
			}
			return e.parseWhitespaceTail(tok)

		case tok.Kind == token.EndOfLine:
			if len(e.acc.name) == 0 {
				return e.syntaxErr(tok, "spot name")
			}
			e.acc.stopName()
			return nil

		default:
			return e.syntaxErr(tok, "spot name character", "end of line")
		}
	}
}

// parseSpotGroup handles '#' followed by the barcode token. The '#' and
// the value join the spot name; the value "0" records no barcode.
func (e *Engine) parseSpotGroup(hash token.Token) error {
	e.acc.growName(e.text(hash))
	tok := e.next()
	if tok.Kind != token.AlphaNum && tok.Kind != token.Number {
		return e.syntaxErr(tok, "spot group")
	}
	e.acc.setGroup(e.text(tok))
	e.acc.growName(e.text(tok))
	return nil
}

// parseSlashReadNumber handles the legacy "/<digit>" suffix in non-PacBio
// files. The name stops before the slash; neither the slash nor the digit
// joins it. Anything after the digit is consumed without effect.
func (e *Engine) parseSlashReadNumber(slash token.Token) error {
	e.acc.stopName()

	tok := e.next()
	if tok.Kind != token.Number {
		return e.syntaxErr(tok, "read number")
	}
	n, err := e.state.resolveReadNumber(e.text(tok), tok.Line)
	if err != nil {
		return err
	}
	e.acc.readNumber = n

	return e.consumeToEndOfLine()
}

// parseWhitespaceTail distinguishes the Casava 1.8 tagline from a plain
// descriptive tail. Both extend the still-open spot name through the end
// of the line.
func (e *Engine) parseWhitespaceTail(ws token.Token) error {
	tok := e.next()
	if tok.Kind == token.EndOfLine {
		// Trailing whitespace only.
		e.acc.stopName()
		return nil
	}
	if tok.Kind == token.EndOfText {
		return e.syntaxErr(tok, "header tail", "end of line")
	}

	if tok.Kind == token.Number {
		nxt := e.next()
		if e.isByte(nxt, ':') {
			return e.parseCasava(ws, tok, nxt)
		}
		e.unread(nxt)
	}

	e.acc.growName(e.text(ws))
	for {
		switch tok.Kind {
		case token.AlphaNum, token.Number, token.CoordinateRun,
			token.Whitespace, token.GenericToken:
			e.acc.growName(e.text(tok))
		case token.EndOfLine:
			e.acc.stopName()
			return nil
		default:
			return e.syntaxErr(tok, "header tail", "end of line")
		}
		tok = e.next()
	}
}

// parseCasava consumes the four-field Casava 1.8 tagline:
// <read>:<filterFlag>:<controlNumber>:<indexSequence>. Every field joins
// the spot name; the read field obeys the read-number rules (outside
// PacBio mode), a filter flag of 'Y' marks the record low quality, and the
// index sequence becomes the spot group.
func (e *Engine) parseCasava(ws, read, colon token.Token) error {
	if !e.state.IsPacBio() {
		n, err := e.state.resolveReadNumber(e.text(read), read.Line)
		if err != nil {
			return err
		}
		e.acc.readNumber = n
	}
	e.acc.growName(e.text(ws))
	e.acc.growName(e.text(read))
	e.acc.growName(e.text(colon))

	flag := e.next()
	if flag.Kind != token.AlphaNum {
		return e.syntaxErr(flag, "filter flag")
	}
	text := e.text(flag)
	if len(text) == 1 && text[0] == 'Y' {
		e.acc.lowQuality = true
	}
	e.acc.growName(text)

	if err := e.expectByte(':'); err != nil {
		return err
	}

	control := e.next()
	if control.Kind != token.Number {
		return e.syntaxErr(control, "control number")
	}
	e.acc.growName(e.text(control))

	if err := e.expectByte(':'); err != nil {
		return err
	}

	idx := e.next()
	switch idx.Kind {
	case token.EndOfLine:
		// Empty index sequence; no spot group.
		e.acc.stopName()
		return nil
	case token.AlphaNum, token.Number:
		e.acc.setGroup(e.text(idx))
		e.acc.growName(e.text(idx))
	default:
		return e.syntaxErr(idx, "index sequence", "end of line")
	}

	// Dual indexes and similar decorations extend the name only.
	for {
		tok := e.next()
		switch tok.Kind {
		case token.AlphaNum, token.Number, token.CoordinateRun,
			token.Whitespace, token.GenericToken:
			e.acc.growName(e.text(tok))
		case token.EndOfLine:
			e.acc.stopName()
			return nil
		default:
			return e.syntaxErr(tok, "index sequence", "end of line")
		}
	}
}

func (e *Engine) expectByte(b byte) error {
	tok := e.next()
	if !e.isByte(tok, b) {
		return e.syntaxErr(tok, fmt.Sprintf("'%c'", b))
	}
	e.acc.growName(e.text(tok))
	return nil
}

// parseSequenceLines reclassifies following lines as sequence runs and
// accumulates them until the '+' quality header. The run kind of the first
// line fixes the record's colorspace flag unless a '>' header fixed it
// already; mixing kinds is a syntax error.
func (e *Engine) parseSequenceLines() error {
	e.src.RescanAs(token.ModeSequence)
	first := true
	for {
		tok := e.next()
		switch {
		case tok.Kind == token.BaseSequenceRun || tok.Kind == token.ColorspaceRun:
			isColor := tok.Kind == token.ColorspaceRun
			if first {
				// A '>' header already fixed the record to colorspace;
				// the first run cannot contradict the marker.
				if e.acc.colorspace && !isColor {
					return e.syntaxErr(tok, e.runName(true))
				}
				e.acc.colorspace = isColor
				first = false
			} else if e.acc.colorspace != isColor {
				return e.syntaxErr(tok, e.runName(e.acc.colorspace))
			}
			e.acc.appendRead(e.text(tok))

			nxt := e.next()
			if nxt.Kind != token.EndOfLine {
				return e.syntaxErr(nxt, "end of line")
			}

		case e.isByte(tok, '+'):
			if first {
				return e.syntaxErr(tok, "base sequence", "colorspace sequence")
			}
			// The scanner is back in tagline mode for the rest of
			// the '+' line.
			return nil

		default:
			if first {
				return e.syntaxErr(tok, "base sequence", "colorspace sequence")
			}
			return e.syntaxErr(tok, e.runName(e.acc.colorspace), "'+'")
		}
	}
}

func (e *Engine) runName(colorspace bool) string {
	if colorspace {
		return token.ColorspaceRun.String()
	}
	return token.BaseSequenceRun.String()
}

// parseQualityHeader consumes the remainder of the '+' line. A repeat of
// the spot name may follow the '+'; it is validated for shape only.
func (e *Engine) parseQualityHeader() error {
	for {
		tok := e.next()
		switch tok.Kind {
		case token.EndOfLine:
			e.src.RescanAs(token.ModeQuality)
			return nil
		case token.EndOfText, token.Unrecognized:
			return e.syntaxErr(tok, "end of line")
		}
	}
}

// parseQualityLines accumulates quality runs until the quality span
// reaches the read span length. Characters are validated as they are
// appended; a range violation is fatal for the whole session.
func (e *Engine) parseQualityLines() error {
	target := len(e.acc.read)
	for {
		tok := e.next()
		if tok.Kind != token.QualityRun {
			return e.syntaxErr(tok, "quality run")
		}

		text := e.text(tok)
		if len(e.acc.qual)+len(text) > target {
			return e.syntaxErr(tok, fmt.Sprintf("%d quality characters", target-len(e.acc.qual)))
		}
		if err := e.acc.appendQuality(text, e.state.validator); err != nil {
			return e.state.fail(err)
		}

		nxt := e.next()
		if len(e.acc.qual) == target {
			e.src.RescanAs(token.ModeTagline)
			switch nxt.Kind {
			case token.EndOfLine:
				return nil
			case token.EndOfText:
				e.unread(nxt)
				return nil
			default:
				return e.syntaxErr(nxt, "end of line")
			}
		}
		if nxt.Kind != token.EndOfLine {
			return e.syntaxErr(nxt, "quality run")
		}
	}
}

func (e *Engine) consumeToEndOfLine() error {
	for {
		tok := e.next()
		switch tok.Kind {
		case token.EndOfLine:
			return nil
		case token.EndOfText, token.Unrecognized:
			return e.syntaxErr(tok, "end of line")
		}
	}
}

func (e *Engine) next() token.Token {
	if e.unlexed {
		e.unlexed = false
		return e.pending
	}
	return e.src.Next()
}

// unread pushes the most recent token back; one token of lookahead is all
// the grammar needs.
func (e *Engine) unread(t token.Token) {
	e.pending = t
	e.unlexed = true
}

func (e *Engine) text(t token.Token) []byte {
	return e.src.Text(t)
}

func (e *Engine) isByte(t token.Token, b byte) bool {
	return t.Length == 1 && e.src.Text(t)[0] == b
}

func (e *Engine) isNamePunct(t token.Token) bool {
	if t.Kind != token.GenericToken || t.Length != 1 {
		return false
	}
	switch e.src.Text(t)[0] {
	case '_', '.', '-', ':', '=':
		return true
	}
	return false
}

func (e *Engine) syntaxErr(tok token.Token, expected ...string) error {
	got := tok.Kind.String()
	if tok.Length > 0 && tok.Kind != token.EndOfLine {
		got = fmt.Sprintf("%q", e.text(tok))
	}
	return &SyntaxError{Line: tok.Line, Got: got, Expected: expected}
}
