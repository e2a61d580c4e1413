package token

// Grammar parameterises the token naming rules. The zero value is the strict
// default: an uppercase letter followed by uppercase letters, digits, or
// underscores.
type Grammar struct {
	// RelaxedCase admits lowercase letters anywhere in the name.
	RelaxedCase bool

	// AllowHyphens admits hyphens after the first character.
	AllowHyphens bool
}

// ValidName reports whether s satisfies the grammar. Pure; the span scanner
// in pkg/template deliberately does not use it so that spans violating the
// grammar remain visible to validation.
func (g Grammar) ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
			if !g.RelaxedCase {
				return false
			}
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		case c == '_':
			if i == 0 {
				return false
			}
		case c == '-':
			if !g.AllowHyphens || i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
