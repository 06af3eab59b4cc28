package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionAborted is returned by NextRecord after a previous fatal error
// has stopped the session.
var ErrSessionAborted = errors.New("parsing session aborted by fatal error")

// SyntaxError reports a token that fits no expected production. It is
// recoverable: the engine stays usable and the caller decides whether to
// resynchronize at the next header or abort.
type SyntaxError struct {
	Line     int
	Got      string
	Expected []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: syntax error: unexpected %s, expected %s",
		e.Line, e.Got, strings.Join(e.Expected, " or "))
}

// ReadNumberConflictError reports a secondary read number that contradicts
// the one first observed in the file. It is fatal: the input mixes
// incompatible read-numbering conventions.
type ReadNumberConflictError struct {
	Line int
	Got  byte
	Want byte
}

func (e *ReadNumberConflictError) Error() string {
	return fmt.Sprintf("line %d: inconsistent secondary read number '%c', file previously used '%c'",
		e.Line, e.Got, e.Want)
}
