package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error taxonomy shared by the resolver, the precondition checker and the
// orchestrator. Callers match with errors.Is.
var (
	// ErrInvalidResolution is returned when a resolution string is not WIDTHxHEIGHT
	ErrInvalidResolution = errors.New("invalid resolution format, use WIDTHxHEIGHT (e.g. 2560x1440)")

	// ErrEnvironmentUnresolved is returned when the application-data root
	// environment variable is not set
	ErrEnvironmentUnresolved = errors.New("environment variable not set")

	// ErrConfigurationMissing is returned when the root GameUserSettings.ini is absent
	ErrConfigurationMissing = errors.New("configuration file missing")

	// ErrPreconditionMismatch is returned when the root file is not in the
	// native, non-letterboxed state and the check was not skipped
	ErrPreconditionMismatch = errors.New("native resolution check failed")
)

// Resolution is a display size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// ParseResolution parses "WIDTHxHEIGHT" (either x or X, digits only).
// Whitespace around the string and around the separator is ignored.
func ParseResolution(s string) (Resolution, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, "xX")
	if i <= 0 || i == len(s)-1 {
		return Resolution{}, fmt.Errorf("%q: %w", s, ErrInvalidResolution)
	}

	w, h := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	if !allDigits(w) || !allDigits(h) {
		return Resolution{}, fmt.Errorf("%q: %w", s, ErrInvalidResolution)
	}

	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, fmt.Errorf("%q: %w", s, ErrInvalidResolution)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, fmt.Errorf("%q: %w", s, ErrInvalidResolution)
	}

	return Resolution{Width: width, Height: height}, nil
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// W returns the width as a decimal string, the form stored in config files.
func (r Resolution) W() string { return strconv.Itoa(r.Width) }

// H returns the height as a decimal string.
func (r Resolution) H() string { return strconv.Itoa(r.Height) }

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Target is one GameUserSettings.ini instance that may be transformed.
type Target struct {
	Path  string
	Label string
}

// Common monitor resolutions offered as native presets
var NativePresets = []string{"3840x2160", "2560x1440", "1920x1080", "2560x1080", "3440x1440"}

// Common stretched resolutions offered as target presets
var TargetPresets = []string{"1920x1080", "1680x1050", "1440x1080", "1280x1024", "1100x1080", "1080x1080", "1280x960", "1024x768"}
