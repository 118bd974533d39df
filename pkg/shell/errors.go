package shell

import (
	"errors"
	"fmt"
)

// ErrInterrupt reports a statement aborted by an interrupt.
var ErrInterrupt = errors.New("INTERRUPT")

// SyntaxError is a tokenizer or parser failure. It aborts the current
// statement only.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

func syntaxErrorf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}
