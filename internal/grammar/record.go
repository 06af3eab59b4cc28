package grammar

import "github.com/seqwell/fastqparse/internal/quality"

// Record is one fully parsed spot, handed to the consumer with owned
// copies of every span.
type Record struct {
	// Name is the spot name, assembled per the name-and-coordinates
	// rules (spot group and tagline fields included, suffixes excluded).
	Name string
	// SpotGroup is the barcode, empty unless a non-"0" group was seen.
	SpotGroup string
	// ReadNumber is 0 (unknown), 1 (primary) or 2 (any secondary read).
	ReadNumber int
	// IsColorspace marks SOLiD color-call payloads.
	IsColorspace bool
	// LowQuality is set by a Casava 1.8 filter flag of 'Y'.
	LowQuality bool
	// Read is the concatenated sequence payload.
	Read string
	// Quality is the concatenated, validated quality payload.
	Quality string
	// Line is the 1-based line the record's header started on.
	Line int
}

// Sink receives completed records. The record and its fields are owned by
// the receiver.
type Sink interface {
	Write(rec *Record) error
}

// accumulator is the per-record mutable state. It is reset at the start of
// every record and populated strictly in header, sequence, quality order.
type accumulator struct {
	name     []byte
	nameDone bool
	group    []byte

	read       []byte
	readNumber int
	colorspace bool
	lowQuality bool

	qual []byte

	line int
}

func (a *accumulator) reset(line int) {
	a.name = a.name[:0]
	a.nameDone = false
	a.group = a.group[:0]
	a.read = a.read[:0]
	a.readNumber = 0
	a.colorspace = false
	a.lowQuality = false
	a.qual = a.qual[:0]
	a.line = line
}

// growName extends the spot name. Once stopName has been called, further
// calls are no-ops: the single nameDone boolean is the only gate, so later
// productions may keep invoking growName without double-accumulation.
func (a *accumulator) growName(text []byte) {
	if !a.nameDone {
		a.name = append(a.name, text...)
	}
}

func (a *accumulator) stopName() {
	a.nameDone = true
}

// setGroup records the spot group. The literal value "0" means "no
// barcode" and is ignored (the caller still grows the name with it).
func (a *accumulator) setGroup(text []byte) {
	if len(text) == 1 && text[0] == '0' {
		return
	}
	a.group = append(a.group[:0], text...)
}

func (a *accumulator) appendRead(text []byte) {
	a.read = append(a.read, text...)
}

// appendQuality validates each character against v as it is accumulated.
// Positions in errors are relative to the whole quality span.
func (a *accumulator) appendQuality(text []byte, v quality.Validator) error {
	base := len(a.qual)
	for i := 0; i < len(text); i++ {
		if err := v.Check(text[i], base+i); err != nil {
			return err
		}
	}
	a.qual = append(a.qual, text...)
	return nil
}

// finish copies the accumulated spans into an owned Record.
func (a *accumulator) finish() *Record {
	return &Record{
		Name:         string(a.name),
		SpotGroup:    string(a.group),
		ReadNumber:   a.readNumber,
		IsColorspace: a.colorspace,
		LowQuality:   a.lowQuality,
		Read:         string(a.read),
		Quality:      string(a.qual),
		Line:         a.line,
	}
}
