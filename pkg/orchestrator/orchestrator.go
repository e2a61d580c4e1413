// Package orchestrator drives the cartesian product of templates × value
// rows through validation, rendering, and output, aggregating per-task
// outcomes into a run report.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goliatone/go-templfill/internal/discovery"
	"github.com/goliatone/go-templfill/internal/textenc"
	"github.com/goliatone/go-templfill/pkg/config"
	"github.com/goliatone/go-templfill/pkg/output"
	"github.com/goliatone/go-templfill/pkg/render"
	"github.com/goliatone/go-templfill/pkg/template"
	"github.com/goliatone/go-templfill/pkg/token"
	"github.com/goliatone/go-templfill/pkg/validate"
	"github.com/goliatone/go-templfill/pkg/values"
)

// State tracks the run's progress through its phases.
type State int

const (
	StateValidating State = iota
	StateDiscovering
	StateRendering
	StateReporting
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateDiscovering:
		return "discovering"
	case StateRendering:
		return "rendering"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Discoverer expands a template locator into candidate file paths.
type Discoverer interface {
	Expand(locator string) ([]string, error)
}

// Writer emits rendered artifacts. *output.Writer is the production
// implementation; tests inject in-memory doubles.
type Writer interface {
	Prepare(templateDirs []string) error
	Write(name string, content []byte) (string, error)
	CleanupAll() int
}

// TooManyTasksError reports a run whose templates × rows product exceeds the
// task ceiling. Detected with an overflow-safe guard before any work starts.
type TooManyTasksError struct {
	Templates int
	Rows      int
	Limit     int
}

func (e *TooManyTasksError) Error() string {
	return fmt.Sprintf("orchestrator: %d templates x %d rows exceeds the task limit of %d",
		e.Templates, e.Rows, e.Limit)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLogger injects the run logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithDiscoverer injects a custom template discoverer.
func WithDiscoverer(d Discoverer) Option {
	return func(o *Orchestrator) { o.discoverer = d }
}

// WithContentLoader injects a custom template content loader.
func WithContentLoader(l template.ContentLoader) Option {
	return func(o *Orchestrator) { o.loader = l }
}

// WithDecoder injects a custom value-file decoder.
func WithDecoder(d values.Decoder) Option {
	return func(o *Orchestrator) { o.decoder = d }
}

// WithWriter injects a pre-built artifact writer, bypassing the default
// construction from the request's output directory.
func WithWriter(w Writer) Option {
	return func(o *Orchestrator) { o.writer = w }
}

// Orchestrator coordinates the full pipeline from declared tokens and value
// rows to written artifacts. Missing collaborators are initialised with the
// built-in implementations.
type Orchestrator struct {
	log        *zap.Logger
	discoverer Discoverer
	loader     template.ContentLoader
	decoder    values.Decoder
	writer     Writer

	state State
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.loader == nil {
		o.loader = textenc.Loader{}
	}
	if o.decoder == nil {
		o.decoder = textenc.Loader{}
	}
	return o
}

// Request carries the already-parsed run inputs.
type Request struct {
	Config config.Config
	Limits config.Limits
}

// State returns the phase the last Run reached.
func (o *Orchestrator) State() State { return o.state }

func (o *Orchestrator) setState(s State) {
	o.state = s
	o.log.Debug("state transition", zap.Stringer("state", s))
}

func (o *Orchestrator) abort(err error) (Report, error) {
	o.setState(StateAborted)
	return Report{}, err
}

// OutputDir resolves the run's output directory: the configured base (or the
// current directory) joined with the sanitised project name.
func OutputDir(cfg config.Config) string {
	project := output.Sanitize(cfg.Project)
	if project == "" {
		project = fmt.Sprintf("project_%d", os.Getpid())
	}
	base := cfg.OutputDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, project)
}

// Run executes the pipeline: validate inputs, discover and pre-validate
// templates, run the once-per-run safety checks, then render and write each
// (template, row) task. A single task's failure is recorded and the loop
// continues; only cross-cutting validation errors abort the run.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, limits := req.Config, req.Limits
	grammar := token.Grammar{RelaxedCase: cfg.RelaxedCase, AllowHyphens: cfg.AllowHyphens}

	o.setState(StateValidating)

	set, err := token.ParseSet(cfg.Patterns, grammar)
	if err != nil {
		return o.abort(err)
	}
	tbl, err := values.Parse(cfg.Values, o.decoder, limits)
	if err != nil {
		return o.abort(err)
	}
	if err := validate.Rows(set, tbl, o.log); err != nil {
		return o.abort(err)
	}

	o.setState(StateDiscovering)

	disc := o.discoverer
	if disc == nil {
		disc = discovery.Discoverer{Allowed: limits.ExtensionAllowed}
	}
	paths, err := disc.Expand(cfg.Templates)
	if err != nil {
		return o.abort(err)
	}

	// Guard against overflow before multiplying.
	rows := tbl.Len()
	if rows > 0 && len(paths) > limits.MaxTasks/rows {
		return o.abort(&TooManyTasksError{Templates: len(paths), Rows: rows, Limit: limits.MaxTasks})
	}

	report := Report{DryRun: !cfg.Run}
	registry := template.NewRegistry(o.loader, limits)

	// Load and pre-validate every template before anything is written, so a
	// missing declared pattern aborts with zero artifacts on disk.
	var active []*template.Template
	for _, path := range paths {
		tpl, err := registry.Load(path)
		if err != nil {
			o.log.Error("skipping template", zap.String("template", path), zap.Error(err))
			report.recordFailure(path, 0, err)
			continue
		}
		if err := validate.TemplateTokens(set, tpl, cfg.Force, o.log); err != nil {
			return o.abort(err)
		}
		active = append(active, tpl)
	}

	writer := o.writer
	if writer == nil {
		writer = output.NewWriter(OutputDir(cfg), cfg.Run, limits, o.log)
	}
	templateDirs := make([]string, 0, len(active))
	for _, tpl := range active {
		templateDirs = append(templateDirs, tpl.Dir)
	}
	if err := writer.Prepare(templateDirs); err != nil {
		return o.abort(err)
	}

	o.setState(StateRendering)

	engine := render.NewEngine(set, grammar, cfg.Force, o.log)
	total := len(active) * rows
	o.log.Info("starting render",
		zap.Int("templates", len(active)),
		zap.Int("rows", rows),
		zap.Int("tasks", total),
		zap.Bool("dry_run", !cfg.Run),
		zap.Bool("force", cfg.Force))

	task := 0
	for _, tpl := range active {
		for ri, row := range tbl.Rows() {
			if err := ctx.Err(); err != nil {
				o.setState(StateAborted)
				return report, fmt.Errorf("orchestrator: interrupted: %w", err)
			}
			task++
			o.logProgress(task, total)

			rendered, err := engine.Render(tpl, row, ri+1)
			if err != nil {
				o.log.Error("render failed",
					zap.String("template", tpl.Name), zap.Int("row", ri+1), zap.Error(err))
				report.recordFailure(tpl.Path, ri+1, err)
				continue
			}

			name := output.Filename(tpl.Stem, tpl.Ext, ri+1)
			path, err := writer.Write(name, []byte(rendered))
			if err != nil {
				o.log.Error("write failed",
					zap.String("template", tpl.Name), zap.Int("row", ri+1), zap.Error(err))
				report.recordFailure(tpl.Path, ri+1, err)
				continue
			}
			report.recordSuccess(path)
		}
	}

	o.setState(StateReporting)
	o.log.Info("completed",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed))

	o.setState(StateDone)
	return report, nil
}

// logProgress emits roughly twenty progress lines for larger runs.
func (o *Orchestrator) logProgress(task, total int) {
	if total < 20 {
		return
	}
	interval := total / 20
	if interval < 1 {
		interval = 1
	}
	if task%interval == 0 {
		o.log.Info("progress",
			zap.Int("task", task),
			zap.Int("total", total),
			zap.Int("percent", task*100/total))
	}
}
