package paths_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/truestretch/truestretch/internal/paths"
	"github.com/truestretch/truestretch/internal/types"
)

func env(vars map[string]string) paths.LookupEnv {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func mkdirs(t *testing.T, base string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(base, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBaseDir(t *testing.T) {
	got, err := paths.BaseDir(env(map[string]string{"LOCALAPPDATA": "/home/u/AppData/Local"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join("/home/u/AppData/Local", "VALORANT", "Saved", "Config")
	if got != want {
		t.Errorf("BaseDir = %q, want %q", got, want)
	}

	for name, vars := range map[string]map[string]string{
		"unset": {},
		"empty": {"LOCALAPPDATA": ""},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := paths.BaseDir(env(vars)); !errors.Is(err, types.ErrEnvironmentUnresolved) {
				t.Errorf("expected ErrEnvironmentUnresolved, got %v", err)
			}
		})
	}
}

func TestLastKnownUser(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    string
	}{
		{name: "file absent", content: nil, want: ""},
		{
			name:    "first valid match",
			content: ptr("[Riot]\r\n; LastKnownUser=commented\r\nLastKnownUser = 1a2b-3c4d \r\nLastKnownUser=second\r\n"),
			want:    "1a2b-3c4d",
		},
		{
			name:    "invalid characters are skipped",
			content: ptr("LastKnownUser=bad_id\nLastKnownUser=good-id\n"),
			want:    "good-id",
		},
		{name: "no key", content: ptr("Other=1\n"), want: ""},
		{
			name:    "lone carriage returns split lines",
			content: ptr("[UserInfo]\rOther=1\rLastKnownUser=cr-only\r"),
			want:    "cr-only",
		},
		{
			name:    "long preceding line",
			content: ptr("Blob=" + strings.Repeat("a", 128*1024) + "\nLastKnownUser=after-blob\n"),
			want:    "after-blob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != nil {
				if err := os.WriteFile(filepath.Join(dir, paths.MachineFile), []byte(*tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			got, err := paths.LastKnownUser(dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LastKnownUser = %q, want %q", got, tt.want)
			}
		})
	}
}

func ptr(s string) *string { return &s }

func TestFindUserFolder_HighestScoreWins(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base,
		"abc-1/Windows",
		"abc-2/Windows", "abc-2/WindowsClient",
		"abcd-3/Windows", "abcd-3/WindowsClient",
		"WindowsClient",
	)

	got, err := paths.FindUserFolder(base, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(base, "abc-2"); got != want {
		t.Errorf("FindUserFolder = %q, want %q", got, want)
	}
}

func TestFindUserFolder_TieBreakIsLexicographic(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "ABC-zzz/Windows", "abc-aaa/WindowsClient", "abc-mmm")

	got, err := paths.FindUserFolder(base, "Abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(base, "ABC-zzz"); got != want {
		t.Errorf("FindUserFolder = %q, want %q", got, want)
	}
}

func TestFindUserFolder_NoMatch(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, base, "other-1")
	if err := os.WriteFile(filepath.Join(base, "abc-file"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"abc", ""} {
		got, err := paths.FindUserFolder(base, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("FindUserFolder(%q) = %q, want empty", id, got)
		}
	}
}

func TestBuildTargets(t *testing.T) {
	base := filepath.Join("cfg")

	root := types.Target{
		Path:  filepath.Join(base, "WindowsClient", "GameUserSettings.ini"),
		Label: "Root WindowsClient/GameUserSettings.ini",
	}
	if got := paths.BuildTargets(base, ""); !reflect.DeepEqual(got, []types.Target{root}) {
		t.Errorf("without user folder: %+v", got)
	}

	user := filepath.Join(base, "abc-2")
	want := []types.Target{
		root,
		{Path: filepath.Join(user, "WindowsClient", "GameUserSettings.ini"), Label: "abc-2/WindowsClient/GameUserSettings.ini"},
		{Path: filepath.Join(user, "Windows", "GameUserSettings.ini"), Label: "abc-2/Windows/GameUserSettings.ini"},
	}
	if got := paths.BuildTargets(base, user); !reflect.DeepEqual(got, want) {
		t.Errorf("with user folder:\n got %+v\nwant %+v", got, want)
	}
}
