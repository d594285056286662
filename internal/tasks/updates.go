package tasks

import "fmt"

// Phase identifies the stage a sync run is in. Phases are strictly ordered:
// pull, then push, then exactly one done. A run never moves backwards.
type Phase string

const (
	PhasePull Phase = "pull"
	PhasePush Phase = "push"
	PhaseDone Phase = "done"
)

// Progress is one snapshot of a sync run, emitted after every remote page
// during pull and after every push attempt. Counters are monotonically
// non-decreasing within a run; Errors is append-only. The JSON shape is what
// the HTTP layer serializes verbatim onto its event stream.
type Progress struct {
	Phase            Phase    `json:"phase"`
	Pulled           int      `json:"pulled"`
	Pushed           int      `json:"pushed"`
	Skipped          int      `json:"skipped"`
	Errors           []string `json:"errors"`
	TotalRemoteItems int      `json:"total_remote_items"`
}

// runState is the engine's mutable view of one run. snapshot() is the only
// way state leaves the engine, so consumers never alias the live error slice.
type runState struct {
	phase   Phase
	pulled  int
	pushed  int
	skipped int
	errors  []string
	total   int
}

func newRunState() *runState {
	return &runState{phase: PhasePull, errors: []string{}}
}

func (s *runState) fail(format string, args ...any) {
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *runState) snapshot() Progress {
	errs := make([]string, len(s.errors))
	copy(errs, s.errors)
	return Progress{
		Phase:            s.phase,
		Pulled:           s.pulled,
		Pushed:           s.pushed,
		Skipped:          s.skipped,
		Errors:           errs,
		TotalRemoteItems: s.total,
	}
}
