// Package stretch runs the verify/preview/apply workflow that forces a
// stretched resolution into every GameUserSettings.ini of the current user.
package stretch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/truestretch/truestretch/internal/diff"
	"github.com/truestretch/truestretch/internal/kv"
	"github.com/truestretch/truestretch/internal/paths"
	"github.com/truestretch/truestretch/internal/precheck"
	"github.com/truestretch/truestretch/internal/types"
)

const (
	DefaultNits = "1000"
	DefaultMode = "2"
)

// Options configures one run.
type Options struct {
	Native types.Resolution
	Target types.Resolution

	// Force continues past a failed native check
	Force bool
	// Apply writes changes; otherwise the run is a dry run
	Apply bool

	// BaseDir overrides the directory derived from %LOCALAPPDATA%
	BaseDir string

	// Nits and Mode are pinned as HDRDisplayOutputNits / FullscreenMode.
	// Empty means DefaultNits / DefaultMode.
	Nits string
	Mode string
}

func (o Options) nits() string {
	if o.Nits == "" {
		return DefaultNits
	}
	return o.Nits
}

func (o Options) mode() string {
	if o.Mode == "" {
		return DefaultMode
	}
	return o.Mode
}

// Plan is the outcome of resolving and checking, before any target is touched.
type Plan struct {
	BaseDir       string
	LastKnownUser string // "" when unknown
	UserFolder    string // "" when not found
	Targets       []types.Target

	// Bypassed is the native check failure that Force skipped, if any
	Bypassed *precheck.Mismatch
}

// Outcome is what happened to a single target
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeUnchanged
	OutcomePreviewed
	OutcomeApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomePreviewed:
		return "previewed"
	case OutcomeApplied:
		return "applied"
	default:
		return "unknown"
	}
}

// Result records the outcome for one target.
type Result struct {
	Target  types.Target
	Outcome Outcome
	Diff    string
}

// Report is the full outcome of a run.
type Report struct {
	Plan    *Plan
	Results []Result
}

// PreconditionError is returned when the root file is not at native
// resolution and Force is off. It unwraps to types.ErrPreconditionMismatch.
type PreconditionError struct {
	Path     string
	Native   types.Resolution
	Mismatch *precheck.Mismatch
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("native check failed on %s: %s", e.Path, e.Mismatch)
}

func (e *PreconditionError) Unwrap() error {
	return types.ErrPreconditionMismatch
}

// Runner orchestrates resolution, checking and transformation.
type Runner struct {
	logger *slog.Logger
	sink   Sink
	lookup paths.LookupEnv
}

// NewRunner creates a Runner. A nil sink discards events, a nil lookup uses
// os.LookupEnv.
func NewRunner(logger *slog.Logger, sink Sink, lookup paths.LookupEnv) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = discard
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Runner{logger: logger, sink: sink, lookup: lookup}
}

// Run plans and then executes.
func (r *Runner) Run(opts Options) (*Report, error) {
	plan, err := r.Plan(opts)
	if err != nil {
		return nil, err
	}
	return r.Execute(plan, opts)
}

// Plan resolves the base directory, checks the root settings file against
// the native resolution and builds the target list. No file is modified.
func (r *Runner) Plan(opts Options) (*Plan, error) {
	base := opts.BaseDir
	if base == "" {
		var err error
		if base, err = paths.BaseDir(r.lookup); err != nil {
			return nil, err
		}
	}

	root := paths.RootSettings(base)
	if !isFile(root) {
		return nil, fmt.Errorf("missing %s: launch VALORANT once (native Fullscreen+Fill), then close it: %w",
			root, types.ErrConfigurationMissing)
	}

	rootTarget := types.Target{Path: root, Label: paths.BuildTargets(base, "")[0].Label}
	lines, err := readLines(root)
	if err != nil {
		return nil, err
	}

	plan := &Plan{BaseDir: base}

	if m := precheck.CheckNative(lines, opts.Native); m != nil {
		if !opts.Force {
			r.logger.Warn("native check failed", "path", root, "key", m.Key, "expected", m.Expected, "actual", m.Actual)
			r.sink(Event{Kind: EventCheckFailed, Target: rootTarget, Native: opts.Native, Mismatch: m})
			return nil, &PreconditionError{Path: root, Native: opts.Native, Mismatch: m}
		}
		r.logger.Warn("native check failed, continuing", "path", root, "key", m.Key, "actual", m.Actual)
		r.sink(Event{Kind: EventCheckBypassed, Target: rootTarget, Native: opts.Native, Mismatch: m})
		plan.Bypassed = m
	} else {
		r.logger.Debug("native check passed", "path", root, "native", opts.Native)
		r.sink(Event{Kind: EventCheckPassed, Target: rootTarget, Native: opts.Native})
	}

	if plan.LastKnownUser, err = paths.LastKnownUser(filepath.Dir(root)); err != nil {
		return nil, err
	}
	if plan.UserFolder, err = paths.FindUserFolder(base, plan.LastKnownUser); err != nil {
		return nil, err
	}
	plan.Targets = paths.BuildTargets(base, plan.UserFolder)

	r.logger.Info("resolved targets",
		"base_dir", base,
		"last_known_user", plan.LastKnownUser,
		"user_folder", plan.UserFolder,
		"targets", len(plan.Targets),
	)

	return plan, nil
}

// Execute transforms every existing target in plan order. Missing targets
// are skipped. Writes happen only when opts.Apply is set; a failed write
// stops the run without undoing earlier ones.
func (r *Runner) Execute(plan *Plan, opts Options) (*Report, error) {
	report := &Report{Plan: plan}

	for _, t := range plan.Targets {
		res, err := r.process(t, opts)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
	}

	return report, nil
}

func (r *Runner) process(t types.Target, opts Options) (Result, error) {
	res := Result{Target: t}

	if !isFile(t.Path) {
		r.logger.Debug("target not found", "label", t.Label, "path", t.Path)
		r.sink(Event{Kind: EventSkipped, Target: t})
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	old, err := readLines(t.Path)
	if err != nil {
		return res, err
	}

	next, changed := Transform(old, opts.Target, opts.nits(), opts.mode())
	if !changed {
		r.sink(Event{Kind: EventUnchanged, Target: t})
		res.Outcome = OutcomeUnchanged
		return res, nil
	}

	if res.Diff, err = diff.Unified(old, next, t.Path); err != nil {
		return res, err
	}
	r.sink(Event{Kind: EventDiff, Target: t, Diff: res.Diff})

	if !opts.Apply {
		r.sink(Event{Kind: EventDryRun, Target: t})
		res.Outcome = OutcomePreviewed
		return res, nil
	}

	if err := writeFileAtomic(t.Path, kv.Join(next)); err != nil {
		return res, err
	}
	r.logger.Info("updated settings", "label", t.Label, "path", t.Path)
	r.sink(Event{Kind: EventApplied, Target: t})
	res.Outcome = OutcomeApplied

	return res, nil
}

// TargetUpdates sets the resolution and letterbox keys for res.
func TargetUpdates(res types.Resolution) kv.Updates {
	var u kv.Updates
	for _, e := range precheck.Expected(res) {
		u = append(u, kv.Set(e.Key, e.Value))
	}
	return u
}

// Transform applies the target resolution updates and pins the
// brightness/fullscreen pair. changed reports whether the result differs
// from lines.
func Transform(lines []string, target types.Resolution, nits, mode string) ([]string, bool) {
	updated, changedKeys := kv.ApplyUpdates(lines, TargetUpdates(target))
	out, _ := kv.EnforcePairOrder(updated, nits, mode)
	return out, changedKeys || !slices.Equal(out, lines)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func readLines(p string) ([]string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return kv.SplitLines(string(data)), nil
}

// writeFileAtomic replaces p with content through a temp file in the same
// directory, keeping p's permission bits.
func writeFileAtomic(p, content string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(p); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", p, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(content)
	if err == nil {
		err = tmp.Chmod(perm)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, p)
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", p, err)
	}

	return nil
}
