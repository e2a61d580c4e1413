// Package token parses and validates the declared placeholder set: a
// comma-separated list of delimiter-wrapped names such as "@HOST@,@IP@".
// One delimiter character, @ or %, is inferred from the first entry and
// fixed for the whole run.
package token

import "strings"

// Token is one declared placeholder name. The full placeholder text is the
// run delimiter, the name, and the delimiter again.
type Token struct {
	Name string
}

// Text returns the literal placeholder as it appears in templates.
func (t Token) Text(delim byte) string {
	return string(delim) + t.Name + string(delim)
}

// Set is the immutable ordered collection of declared tokens plus the
// resolved delimiter.
type Set struct {
	tokens []Token
	delim  byte
}

// Delim returns the run delimiter character.
func (s *Set) Delim() byte { return s.delim }

// Tokens returns the declared tokens in declaration order. The returned
// slice must not be mutated.
func (s *Set) Tokens() []Token { return s.tokens }

// Len returns the number of declared tokens.
func (s *Set) Len() int { return len(s.tokens) }

// Names returns the declared names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		names[i] = t.Name
	}
	return names
}

func isDelim(c byte) bool { return c == '@' || c == '%' }

// ParseSet parses the comma-separated pattern list. The delimiter is taken
// from the first entry's first character; every entry must use the same one.
func ParseSet(raw string, grammar Grammar) (*Set, error) {
	entries := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			entries = append(entries, part)
		}
	}
	if len(entries) == 0 {
		return nil, ErrEmptyPatternList
	}

	set := &Set{tokens: make([]Token, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if len(entry) < 3 {
			return nil, &InvalidPatternError{Entry: entry, Reason: "too short, use @PATTERN_NAME@"}
		}
		first, last := entry[0], entry[len(entry)-1]
		if !isDelim(first) {
			return nil, &InvalidPatternError{Entry: entry, Reason: "must start with @ or %"}
		}
		if set.delim == 0 {
			set.delim = first
		} else if first != set.delim {
			return nil, &InconsistentDelimiterError{Want: set.delim, Got: first, Entry: entry}
		}
		if last != set.delim {
			return nil, &InvalidPatternError{Entry: entry, Reason: "missing closing delimiter"}
		}

		name := entry[1 : len(entry)-1]
		if !grammar.ValidName(name) {
			return nil, &InvalidPatternError{Entry: entry, Reason: "name violates naming rules"}
		}
		if _, dup := seen[name]; dup {
			return nil, &DuplicatePatternError{Name: name}
		}
		seen[name] = struct{}{}
		set.tokens = append(set.tokens, Token{Name: name})
	}

	return set, nil
}
