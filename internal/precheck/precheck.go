// Package precheck verifies a settings file still reflects the monitor's
// native, non-letterboxed resolution before it gets stretched.
package precheck

import (
	"fmt"

	"github.com/truestretch/truestretch/internal/kv"
	"github.com/truestretch/truestretch/internal/types"
)

// Settings keys that describe the display resolution and letterboxing.
const (
	ResolutionX          = "ResolutionSizeX"
	ResolutionY          = "ResolutionSizeY"
	ConfirmedResolutionX = "LastUserConfirmedResolutionSizeX"
	ConfirmedResolutionY = "LastUserConfirmedResolutionSizeY"
	Letterbox            = "bShouldLetterbox"
	ConfirmedLetterbox   = "bLastConfirmedShouldLetterbox"
)

// Expectation is one key and the value it must hold.
type Expectation struct {
	Key   string
	Value string
}

// Expected returns the six key/value pairs a file must hold at resolution
// res, in check order.
func Expected(res types.Resolution) []Expectation {
	return []Expectation{
		{ResolutionX, res.W()},
		{ResolutionY, res.H()},
		{ConfirmedResolutionX, res.W()},
		{ConfirmedResolutionY, res.H()},
		{Letterbox, "False"},
		{ConfirmedLetterbox, "False"},
	}
}

// Mismatch describes the first key that did not hold its expected value.
type Mismatch struct {
	Key      string
	Expected string
	Actual   string
	Present  bool // false when Key does not appear in the file
}

func (m *Mismatch) String() string {
	actual := "<missing>"
	if m.Present {
		actual = fmt.Sprintf("%q", m.Actual)
	}
	return fmt.Sprintf("%s: expected %q, got %s", m.Key, m.Expected, actual)
}

// CheckNative compares the file's values against Expected(native) and
// returns nil when all six match, otherwise the first mismatch in check order.
// A repeated key is judged by its last occurrence.
func CheckNative(lines []string, native types.Resolution) *Mismatch {
	got := kv.Values(lines)
	for _, e := range Expected(native) {
		v, ok := got[e.Key]
		if !ok || v != e.Value {
			return &Mismatch{Key: e.Key, Expected: e.Value, Actual: v, Present: ok}
		}
	}
	return nil
}
