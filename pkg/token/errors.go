package token

import (
	"errors"
	"fmt"
)

// ErrEmptyPatternList reports an empty or effectively empty token list.
var ErrEmptyPatternList = errors.New("token: no patterns provided")

// InconsistentDelimiterError reports a token entry wrapped in a different
// delimiter than the one established by the first entry.
type InconsistentDelimiterError struct {
	Want  byte
	Got   byte
	Entry string
}

func (e *InconsistentDelimiterError) Error() string {
	return fmt.Sprintf("token: pattern %q uses delimiter %q, run is fixed to %q",
		e.Entry, string(e.Got), string(e.Want))
}

// InvalidPatternError reports an entry that is not delimiter-wrapped or whose
// name violates the active grammar.
type InvalidPatternError struct {
	Entry  string
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("token: invalid pattern %q: %s", e.Entry, e.Reason)
}

// DuplicatePatternError reports a token name declared more than once.
type DuplicatePatternError struct {
	Name string
}

func (e *DuplicatePatternError) Error() string {
	return fmt.Sprintf("token: duplicate pattern %q, each pattern must be unique", e.Name)
}
