package grammar

import (
	"fmt"

	"github.com/seqwell/fastqparse/internal/quality"
)

// PacBioReadNumber is the DefaultReadNumber sentinel selecting PacBio
// naming: trailing "/digits" stays part of the spot name and read-number
// tokens are never interpreted. It is a configuration input, not something
// detected from the stream.
const PacBioReadNumber = -1

// Config is the per-session configuration consumed by NewState.
type Config struct {
	// PhredOffset selects quality validation: 0 (disabled), 33 or 64.
	PhredOffset int
	// MaxPhred, when nonzero, overrides the upper validation bound with
	// a raw character code.
	MaxPhred byte
	// DefaultReadNumber is assigned when a read-number position carries
	// no usable digit: 0 for legacy Illumina, PacBioReadNumber for
	// PacBio-style names.
	DefaultReadNumber int
}

// State is the file-scoped parse state. One State serves one parsing
// session; independent sessions never share one.
type State struct {
	validator         quality.Validator
	defaultReadNumber int

	// secondaryReadNumber is the literal digit of the first secondary
	// read observed; zero until then. Write-once-then-compare for the
	// life of the session.
	secondaryReadNumber byte

	fatal error
}

// NewState validates cfg and builds the session state.
func NewState(cfg Config) (*State, error) {
	switch cfg.PhredOffset {
	case 0, 33, 64:
	default:
		return nil, fmt.Errorf("unsupported phred offset %d (want 0, 33 or 64)", cfg.PhredOffset)
	}
	return &State{
		validator: quality.Validator{
			Encoding: quality.Encoding(cfg.PhredOffset),
			MaxChar:  cfg.MaxPhred,
		},
		defaultReadNumber: cfg.DefaultReadNumber,
	}, nil
}

// IsPacBio reports whether the PacBio naming convention is active.
func (s *State) IsPacBio() bool {
	return s.defaultReadNumber == PacBioReadNumber
}

// Err returns the fatal error that stopped the session, if any.
func (s *State) Err() error {
	return s.fatal
}

// fail records err as fatal and returns it. Once set, the engine stops
// descending into further productions.
func (s *State) fail(err error) error {
	if s.fatal == nil {
		s.fatal = err
	}
	return err
}

// resolveReadNumber maps a read-number token to the canonical {0,1,2}
// representation and enforces per-file consistency of secondary reads.
// Multi-digit tokens are not read numbers and fall back to the default.
func (s *State) resolveReadNumber(digits []byte, line int) (int, error) {
	if len(digits) != 1 {
		return s.defaultReadNumber, nil
	}
	switch d := digits[0]; d {
	case '1':
		return 1, nil
	case '0':
		return s.defaultReadNumber, nil
	default:
		if s.secondaryReadNumber == 0 {
			s.secondaryReadNumber = d
		} else if s.secondaryReadNumber != d {
			return 0, s.fail(&ReadNumberConflictError{Line: line, Got: d, Want: s.secondaryReadNumber})
		}
		// All secondary reads normalize to 2; the literal digit only
		// matters for the consistency check above.
		return 2, nil
	}
}
