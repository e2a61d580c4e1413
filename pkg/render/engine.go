// Package render performs the per-row, per-template literal substitution and
// the post-render leftover scan that realises the force-mode contract.
package render

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-templfill/pkg/template"
	"github.com/goliatone/go-templfill/pkg/token"
	"github.com/goliatone/go-templfill/pkg/values"
)

// UnreplacedError reports delimiter-wrapped spans that match the active
// naming grammar but survived substitution. Without force mode the artifact
// would be broken, so the task fails.
type UnreplacedError struct {
	Template string
	Row      int
	Spans    []string
}

func (e *UnreplacedError) Error() string {
	return fmt.Sprintf("render: unreplaced pattern(s) in %s row %d: %s",
		e.Template, e.Row, strings.Join(e.Spans, ", "))
}

// Engine rewrites template text one (template, row) pair at a time. It is
// stateless across calls; rendering the same pair twice yields byte-identical
// output.
type Engine struct {
	set     *token.Set
	grammar token.Grammar
	force   bool
	log     *zap.Logger
}

// NewEngine builds an engine for the declared token set.
func NewEngine(set *token.Set, grammar token.Grammar, force bool, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{set: set, grammar: grammar, force: force, log: log}
}

// Render substitutes every occurrence of each declared token with the row's
// corresponding column value and returns the rewritten text. rowIndex is the
// 1-based row number, used for diagnostics only.
//
// Substitution is one simultaneous left-to-right pass over the original
// text: substituted values are spliced in verbatim and never re-scanned, so
// a value containing another token's literal text stays inert and
// self-referential expansion is impossible.
func (e *Engine) Render(tpl *template.Template, row values.Row, rowIndex int) (string, error) {
	delim := e.set.Delim()

	e.warnCaseMismatches(tpl)

	valueFor := make(map[string]string, e.set.Len())
	for i, tok := range e.set.Tokens() {
		if i >= len(row) {
			// Alignment is validated up front; guard anyway so a short row
			// can never index out of range.
			break
		}
		valueFor[tok.Name] = row[i]
	}

	result, replacements := template.ReplaceSpans(tpl.Content, delim, func(name string) (string, bool) {
		value, ok := valueFor[name]
		return value, ok
	})
	if replacements == 0 {
		e.log.Warn("no replacements made",
			zap.String("template", tpl.Name), zap.Int("row", rowIndex))
	}

	if err := e.checkLeftovers(result, tpl.Name, rowIndex); err != nil {
		return "", err
	}
	return result, nil
}

// warnCaseMismatches flags spans that differ from a declared token only in
// case; they would otherwise pass through silently as unreplaced text. The
// comparison is case-insensitive against declared names, independent of the
// active grammar.
func (e *Engine) warnCaseMismatches(tpl *template.Template) {
	delim := e.set.Delim()
	var spans []template.Span

	for _, tok := range e.set.Tokens() {
		if tpl.Contains(tok.Text(delim)) {
			continue
		}
		if spans == nil {
			spans = template.Scan(tpl.Content, delim)
		}
		for _, span := range spans {
			if span.Name != tok.Name && strings.EqualFold(span.Name, tok.Name) {
				e.log.Warn("case mismatch: template span differs from declared pattern only in case",
					zap.String("template", tpl.Name),
					zap.String("found", span.Text),
					zap.String("declared", tok.Text(delim)))
			}
		}
	}
}

// checkLeftovers scans the rendered text for spans matching the active
// grammar. Force mode downgrades the failure to a warning and leaves the
// spans verbatim.
func (e *Engine) checkLeftovers(rendered, name string, rowIndex int) error {
	var leftover []string
	for _, span := range template.Scan(rendered, e.set.Delim()) {
		if e.grammar.ValidName(span.Name) {
			leftover = append(leftover, span.Text)
		}
	}
	if len(leftover) == 0 {
		return nil
	}

	if e.force {
		e.log.Warn("force mode: unreplaced patterns left in output",
			zap.String("template", name),
			zap.Int("row", rowIndex),
			zap.Strings("patterns", leftover))
		return nil
	}
	return &UnreplacedError{Template: name, Row: rowIndex, Spans: leftover}
}
