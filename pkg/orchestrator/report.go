package orchestrator

// TaskFailure records one failed task: the template, the 1-based row (0 when
// the whole template was skipped), and the error.
type TaskFailure struct {
	Template string
	Row      int
	Err      error
}

// Report summarises a run. A dry run counts the writes it would have made.
type Report struct {
	Succeeded int
	Failed    int
	DryRun    bool

	// Paths lists written (or, in a dry run, would-be) artifact paths in
	// task order.
	Paths []string

	// Failures lists the recorded per-task failures in task order.
	Failures []TaskFailure
}

func (r *Report) recordSuccess(path string) {
	r.Succeeded++
	r.Paths = append(r.Paths, path)
}

func (r *Report) recordFailure(template string, row int, err error) {
	r.Failed++
	r.Failures = append(r.Failures, TaskFailure{Template: template, Row: row, Err: err})
}
