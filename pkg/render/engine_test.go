package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-templfill/pkg/render"
	"github.com/goliatone/go-templfill/pkg/template"
	"github.com/goliatone/go-templfill/pkg/token"
	"github.com/goliatone/go-templfill/pkg/values"
)

func mustSet(t *testing.T, raw string, grammar token.Grammar) *token.Set {
	t.Helper()
	set, err := token.ParseSet(raw, grammar)
	if err != nil {
		t.Fatalf("parse token set: %v", err)
	}
	return set
}

func tpl(content string) *template.Template {
	out := template.New("/tmp/templates/server.conf")
	out.Content = content
	return out
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}

func TestRenderBasicSubstitution(t *testing.T) {
	set := mustSet(t, "@HOST@,@PORT@", token.Grammar{})
	engine := render.NewEngine(set, token.Grammar{}, false, zap.NewNop())

	got, err := engine.Render(tpl("server=@HOST@:@PORT@"), values.Row{"web01", "8080"}, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "server=web01:8080"; got != want {
		t.Fatalf("rendered = %q, want %q", got, want)
	}
}

func TestRenderReplacesEveryOccurrence(t *testing.T) {
	set := mustSet(t, "@HOST@", token.Grammar{})
	engine := render.NewEngine(set, token.Grammar{}, false, zap.NewNop())

	got, err := engine.Render(tpl("@HOST@ pings @HOST@"), values.Row{"web01"}, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "web01 pings web01"; got != want {
		t.Fatalf("rendered = %q, want %q", got, want)
	}
}

func TestRenderIdempotent(t *testing.T) {
	set := mustSet(t, "@HOST@,@PORT@", token.Grammar{})
	engine := render.NewEngine(set, token.Grammar{}, false, zap.NewNop())
	doc := tpl("server=@HOST@:@PORT@ # @HOST@")
	row := values.Row{"web01", "8080"}

	first, err := engine.Render(doc, row, 1)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := engine.Render(doc, row, 1)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Fatalf("renders differ:\n%s", cmp.Diff(first, second))
	}
}

func TestRenderSubstitutedValueIsNeverReExpanded(t *testing.T) {
	set := mustSet(t, "@HOST@,@PORT@", token.Grammar{})
	engine := render.NewEngine(set, token.Grammar{}, true, zap.NewNop())

	// The HOST value contains PORT's literal text. Substituted content is
	// never re-scanned, so the literal must survive into the output.
	got, err := engine.Render(tpl("h=@HOST@ p=@PORT@"), values.Row{"@PORT@", "8080"}, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "h=@PORT@ p=8080"; got != want {
		t.Fatalf("rendered = %q, want %q", got, want)
	}
}

func TestRenderOnlyFirstColumnsUsed(t *testing.T) {
	set := mustSet(t, "@HOST@,@PORT@", token.Grammar{})
	engine := render.NewEngine(set, token.Grammar{}, false, zap.NewNop())

	got, err := engine.Render(tpl("@HOST@:@PORT@"), values.Row{"web01", "8080", "ignored", "also"}, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "web01:8080"; got != want {
		t.Fatalf("rendered = %q, want %q", got, want)
	}
}

func TestRenderUnreplacedFails(t *testing.T) {
	set := mustSet(t, "@HOST@", token.Grammar{})
	engine := render.NewEngine(set, token.Grammar{}, false, zap.NewNop())

	_, err := engine.Render(tpl("@HOST@ keeps @REGION@"), values.Row{"web01"}, 3)
	var unreplaced *render.UnreplacedError
	if !errors.As(err, &unreplaced) {
		t.Fatalf("error = %v, want UnreplacedError", err)
	}
	if unreplaced.Row != 3 {
		t.Fatalf("row = %d, want 3", unreplaced.Row)
	}
	if diff := cmp.Diff([]string{"@REGION@"}, unreplaced.Spans); diff != "" {
		t.Fatalf("spans (-want +got):\n%s", diff)
	}
}

func TestRenderForceLeavesLiteralSpan(t *testing.T) {
	set := mustSet(t, "@HOST@", token.Grammar{})
	log, logs := observedLogger()
	engine := render.NewEngine(set, token.Grammar{}, true, log)

	got, err := engine.Render(tpl("@HOST@ keeps @REGION@"), values.Row{"web01"}, 1)
	if err != nil {
		t.Fatalf("force mode must not fail: %v", err)
	}
	if want := "web01 keeps @REGION@"; got != want {
		t.Fatalf("rendered = %q, want %q", got, want)
	}
	if logs.FilterMessage("force mode: unreplaced patterns left in output").Len() != 1 {
		t.Fatal("expected a force-mode leftover warning")
	}
}

func TestRenderLeftoverScanUsesActiveGrammar(t *testing.T) {
	set := mustSet(t, "@HOST@", token.Grammar{})
	engine := render.NewEngine(set, token.Grammar{}, false, zap.NewNop())

	// @leftover@ violates the strict grammar, so the post-render scan does
	// not treat it as an unreplaced pattern.
	got, err := engine.Render(tpl("@HOST@ and @leftover@"), values.Row{"web01"}, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "web01 and @leftover@"; got != want {
		t.Fatalf("rendered = %q, want %q", got, want)
	}

	// With relaxed case the same span becomes a fatal leftover.
	relaxed := token.Grammar{RelaxedCase: true}
	engine = render.NewEngine(set, relaxed, false, zap.NewNop())
	_, err = engine.Render(tpl("@HOST@ and @leftover@"), values.Row{"web01"}, 1)
	var unreplaced *render.UnreplacedError
	if !errors.As(err, &unreplaced) {
		t.Fatalf("error = %v, want UnreplacedError under relaxed grammar", err)
	}
}

func TestRenderCaseMismatchWarning(t *testing.T) {
	set := mustSet(t, "@HOST@", token.Grammar{})
	log, logs := observedLogger()
	engine := render.NewEngine(set, token.Grammar{}, false, log)

	_, err := engine.Render(tpl("server=@Host@"), values.Row{"web01"}, 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	warnings := logs.FilterMessage("case mismatch: template span differs from declared pattern only in case")
	if warnings.Len() != 1 {
		t.Fatalf("case-mismatch warnings = %d, want 1", warnings.Len())
	}
}

func TestRenderZeroReplacementsWarns(t *testing.T) {
	set := mustSet(t, "@HOST@", token.Grammar{})
	log, logs := observedLogger()
	engine := render.NewEngine(set, token.Grammar{}, true, log)

	if _, err := engine.Render(tpl("static content only"), values.Row{"web01"}, 1); err != nil {
		t.Fatalf("render: %v", err)
	}
	if logs.FilterMessage("no replacements made").Len() != 1 {
		t.Fatal("expected a zero-replacements warning")
	}
}
