package stretch

import (
	"github.com/truestretch/truestretch/internal/precheck"
	"github.com/truestretch/truestretch/internal/types"
)

// EventKind identifies what happened to a target during a run
type EventKind int

const (
	EventCheckPassed   EventKind = iota // root file is at native resolution
	EventCheckFailed                    // root file failed the native check, run halts
	EventCheckBypassed                  // root file failed the native check, run continues (forced)
	EventSkipped                        // target file does not exist
	EventUnchanged                      // target already in the desired state
	EventDiff                           // target needs changes, Diff holds them
	EventApplied                        // new content written
	EventDryRun                         // new content computed but not written
)

func (k EventKind) String() string {
	switch k {
	case EventCheckPassed:
		return "check_passed"
	case EventCheckFailed:
		return "check_failed"
	case EventCheckBypassed:
		return "check_bypassed"
	case EventSkipped:
		return "skipped"
	case EventUnchanged:
		return "unchanged"
	case EventDiff:
		return "diff"
	case EventApplied:
		return "applied"
	case EventDryRun:
		return "dry_run"
	default:
		return "unknown"
	}
}

// Event is reported to a Sink for every decision the runner makes.
type Event struct {
	Kind   EventKind
	Target types.Target

	// Diff is the unified diff for EventDiff; empty when the lines differ
	// only in a way difflib cannot show.
	Diff string

	// Native and Mismatch are set for the check events
	Native   types.Resolution
	Mismatch *precheck.Mismatch
}

// Sink receives events. It decouples the runner from any output surface.
type Sink func(Event)

func discard(Event) {}
