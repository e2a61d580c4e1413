// Package validate reconciles the declared token set, the supplied value
// arity, and the tokens actually present in each template body.
package validate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-templfill/pkg/template"
	"github.com/goliatone/go-templfill/pkg/token"
	"github.com/goliatone/go-templfill/pkg/values"
)

// MissingValuesError reports a row with fewer columns than declared tokens.
// Row is 1-based; Missing names the tokens left without a value.
type MissingValuesError struct {
	Row     int
	Got     int
	Want    int
	Missing []string
}

func (e *MissingValuesError) Error() string {
	return fmt.Sprintf("validate: row %d has %d values but %d patterns are declared, missing values for: %s",
		e.Row, e.Got, e.Want, strings.Join(e.Missing, ", "))
}

// MissingPatternsError reports declared tokens that never occur in a
// template body. Fatal unless force mode downgrades it.
type MissingPatternsError struct {
	Template string
	Missing  []string
}

func (e *MissingPatternsError) Error() string {
	return fmt.Sprintf("validate: template %s does not contain declared pattern(s): %s",
		e.Template, strings.Join(e.Missing, ", "))
}

// Rows checks every row's column count against the declared token count.
// Too few columns is a hard failure; extra columns are tolerated with a
// warning, only the first N are used. The asymmetry is deliberate, it
// matches documented behavior.
func Rows(set *token.Set, tbl *values.Table, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	want := set.Len()
	names := set.Names()

	for i, row := range tbl.Rows() {
		got := len(row)
		switch {
		case got < want:
			return &MissingValuesError{
				Row:     i + 1,
				Got:     got,
				Want:    want,
				Missing: names[got:],
			}
		case got > want:
			log.Warn("extra value columns will be ignored",
				zap.Int("row", i+1),
				zap.Int("values", got),
				zap.Int("patterns", want),
				zap.Strings("ignored", row[want:]))
		}

		for ci, value := range row {
			if strings.ContainsAny(value, "\r\n") {
				log.Warn("value contains newline characters",
					zap.Int("row", i+1), zap.Int("column", ci+1))
			}
		}
	}
	return nil
}

// TemplateTokens checks that every declared token occurs in the template
// body (exact, case-sensitive). With force mode the failure becomes a
// warning and the absent tokens are simply never substituted for that
// template. Spans in the template whose name is not declared are tolerated
// here; the post-render scan owns them.
func TemplateTokens(set *token.Set, tpl *template.Template, force bool, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	var missing []string
	for _, tok := range set.Tokens() {
		if !tpl.Contains(tok.Text(set.Delim())) {
			missing = append(missing, tok.Text(set.Delim()))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if force {
		log.Warn("force mode: declared patterns missing from template",
			zap.String("template", tpl.Name),
			zap.Strings("missing", missing))
		return nil
	}
	return &MissingPatternsError{Template: tpl.Name, Missing: missing}
}
