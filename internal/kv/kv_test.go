package kv_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/truestretch/truestretch/internal/kv"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want kv.Line
	}{
		{name: "plain", raw: "ResolutionSizeX=2560\n", want: kv.Line{Kind: kv.KeyValue, Key: "ResolutionSizeX", Value: "2560"}},
		{name: "spaces around", raw: "  bShouldLetterbox =  False  \r\n", want: kv.Line{Kind: kv.KeyValue, Key: "bShouldLetterbox", Value: "False"}},
		{name: "empty value", raw: "Key=\n", want: kv.Line{Kind: kv.KeyValue, Key: "Key"}},
		{name: "value with equals", raw: "Path=a=b", want: kv.Line{Kind: kv.KeyValue, Key: "Path", Value: "a=b"}},
		{name: "section header", raw: "[/Script/ShooterGame.ShooterGameUserSettings]\n", want: kv.Line{Kind: kv.Other}},
		{name: "semicolon comment", raw: "; ResolutionSizeX=1\n", want: kv.Line{Kind: kv.Comment}},
		{name: "hash comment", raw: "  # note\n", want: kv.Line{Kind: kv.Comment}},
		{name: "blank", raw: "\n", want: kv.Line{Kind: kv.Other}},
		{name: "no equals", raw: "JustText\n", want: kv.Line{Kind: kv.Other}},
		{name: "dotted key", raw: "a.b=1\n", want: kv.Line{Kind: kv.Other}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kv.Classify(tt.raw); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\nb\n", []string{"a\n", "b\n"}},
		{"a\r\nb", []string{"a\r\n", "b"}},
		{"a\rb\n\n", []string{"a\r", "b\n", "\n"}},
	}

	for _, tt := range tests {
		got := kv.SplitLines(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if kv.Join(got) != tt.input {
			t.Errorf("Join(SplitLines(%q)) did not round-trip", tt.input)
		}
	}
}

func TestValues_LastWins(t *testing.T) {
	got := kv.Values([]string{"A=1\n", "; A=9\n", "B = two \r\n", "A=3\n"})
	want := map[string]string{"A": "3", "B": "two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}

func TestApplyUpdates(t *testing.T) {
	updates := kv.Updates{
		kv.Set("ResolutionSizeX", "1280"),
		kv.Set("ResolutionSizeY", "1024"),
		kv.Keep("FrameRateLimit"),
	}

	tests := []struct {
		name        string
		lines       []string
		want        []string
		wantChanged bool
	}{
		{
			name:        "rewrites matching lines and normalizes terminator",
			lines:       []string{"[Section]\r\n", " ResolutionSizeX = 2560\r\n", "ResolutionSizeY=1440\r\n", "FrameRateLimit=0\r\n"},
			want:        []string{"[Section]\r\n", "ResolutionSizeX=1280\n", "ResolutionSizeY=1024\n", "FrameRateLimit=0\r\n"},
			wantChanged: true,
		},
		{
			name:        "appends missing keys in update order",
			lines:       []string{"Other=1\n", "; comment\n"},
			want:        []string{"Other=1\n", "; comment\n", "ResolutionSizeX=1280\n", "ResolutionSizeY=1024\n"},
			wantChanged: true,
		},
		{
			name:        "already in desired state",
			lines:       []string{"ResolutionSizeX=1280\n", "ResolutionSizeY=1024\n"},
			want:        []string{"ResolutionSizeX=1280\n", "ResolutionSizeY=1024\n"},
			wantChanged: false,
		},
		{
			name:        "duplicate keys are all rewritten",
			lines:       []string{"ResolutionSizeX=1\n", "ResolutionSizeY=1024\n", "ResolutionSizeX=2\n"},
			want:        []string{"ResolutionSizeX=1280\n", "ResolutionSizeY=1024\n", "ResolutionSizeX=1280\n"},
			wantChanged: true,
		},
		{
			name:        "empty input",
			lines:       nil,
			want:        []string{"ResolutionSizeX=1280\n", "ResolutionSizeY=1024\n"},
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := kv.ApplyUpdates(tt.lines, updates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestApplyUpdates_Idempotent(t *testing.T) {
	updates := kv.Updates{
		kv.Set("ResolutionSizeX", "1280"),
		kv.Set("bShouldLetterbox", "False"),
	}
	inputs := [][]string{
		nil,
		{"x\n"},
		{"no newline at end"},
		{"ResolutionSizeX = 2560\r\n", "junk\r", "bShouldLetterbox=True"},
	}

	for _, in := range inputs {
		once, _ := kv.ApplyUpdates(in, updates)
		twice, changed := kv.ApplyUpdates(once, updates)
		if changed {
			t.Errorf("second application changed %q", in)
		}
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("second application altered lines: %q -> %q", once, twice)
		}
	}
}

func TestApplyUpdates_PassthroughIsByteIdentical(t *testing.T) {
	in := []string{"\t; keep me \r\n", "Unrelated = value  \r", "[Header]\n", "tail"}
	got, _ := kv.ApplyUpdates(in, kv.Updates{kv.Set("Missing", "1")})

	if !reflect.DeepEqual(got[:len(in)], in) {
		t.Errorf("passthrough lines changed: %q", got[:len(in)])
	}
	if got[len(in)] != "Missing=1\n" {
		t.Errorf("appended line = %q", got[len(in)])
	}
}

func TestEnforcePairOrder(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "inserts fullscreen after brightness",
			lines: []string{"A=1\n", "HDRDisplayOutputNits=1000\n", "B=2\n"},
			want:  []string{"A=1\n", "HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n", "B=2\n"},
		},
		{
			name:  "moves fullscreen from before brightness",
			lines: []string{"FullscreenMode=1\n", "A=1\n", "HDRDisplayOutputNits=200\r\n"},
			want:  []string{"A=1\n", "HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n"},
		},
		{
			name:  "drops stray fullscreen lines after brightness",
			lines: []string{"HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n", "X=1\n", "FullscreenMode=0\n"},
			want:  []string{"HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n", "X=1\n"},
		},
		{
			name:  "appends pair when brightness missing",
			lines: []string{"A=1\n", "B=2\n"},
			want:  []string{"A=1\n", "B=2\n", "HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n"},
		},
		{
			name:  "adds newline before appended pair",
			lines: []string{"A=1"},
			want:  []string{"A=1", "\n", "HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n"},
		},
		{
			name:  "empty input",
			lines: nil,
			want:  []string{"\n", "HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n"},
		},
		{
			name:  "non numeric values are left alone",
			lines: []string{"HDRDisplayOutputNits=auto\n", "FullscreenMode=Windowed\n"},
			want:  []string{"HDRDisplayOutputNits=auto\n", "FullscreenMode=Windowed\n", "HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n"},
		},
		{
			// every brightness occurrence gets its own fullscreen line
			name:  "repeated brightness key",
			lines: []string{"HDRDisplayOutputNits=1\n", "A=1\n", "HDRDisplayOutputNits=2\n"},
			want: []string{
				"HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n",
				"A=1\n",
				"HDRDisplayOutputNits=1000\n", "FullscreenMode=2\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, inserted := kv.EnforcePairOrder(tt.lines, "1000", "2")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
			if !inserted {
				t.Error("inserted = false")
			}
			assertPairAdjacency(t, got, "1000", "2")
		})
	}
}

// assertPairAdjacency checks that each numeric brightness line is followed by
// exactly one fullscreen line and that no other numeric fullscreen line exists.
func assertPairAdjacency(t *testing.T, lines []string, nits, mode string) {
	t.Helper()
	for i, ln := range lines {
		l := kv.Classify(ln)
		if l.Kind != kv.KeyValue || !isNumeric(l.Value) {
			continue
		}
		switch l.Key {
		case kv.BrightnessKey:
			if l.Value != nits {
				t.Errorf("line %d: brightness %q, want %q", i, l.Value, nits)
			}
			if i+1 >= len(lines) || lines[i+1] != kv.FullscreenKey+"="+mode+"\n" {
				t.Errorf("line %d: brightness not followed by fullscreen", i)
			}
		case kv.FullscreenKey:
			if i == 0 || kv.Classify(lines[i-1]).Key != kv.BrightnessKey {
				t.Errorf("line %d: stray fullscreen line", i)
			}
		}
	}
}

func isNumeric(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}
