// Package paths locates the VALORANT GameUserSettings.ini files for the
// current Windows user.
package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/truestretch/truestretch/internal/kv"
	"github.com/truestretch/truestretch/internal/types"
)

const (
	// EnvVar names the per-user application-data root
	EnvVar = "LOCALAPPDATA"

	WindowsClientDir = "WindowsClient"
	WindowsDir       = "Windows"
	SettingsFile     = "GameUserSettings.ini"
	MachineFile      = "RiotLocalMachine.ini"

	lastKnownUserKey = "LastKnownUser"
)

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// BaseDir returns %LOCALAPPDATA%\VALORANT\Saved\Config.
func BaseDir(lookup LookupEnv) (string, error) {
	local, ok := lookup(EnvVar)
	if !ok || local == "" {
		return "", fmt.Errorf("couldn't resolve %%%s%%, are you on Windows? %w", EnvVar, types.ErrEnvironmentUnresolved)
	}
	return filepath.Join(local, "VALORANT", "Saved", "Config"), nil
}

// RootSettings returns the path of the root WindowsClient settings file.
func RootSettings(baseDir string) string {
	return filepath.Join(baseDir, WindowsClientDir, SettingsFile)
}

// LastKnownUser reads RiotLocalMachine.ini in windowsClientDir and returns the
// first LastKnownUser value made of letters, digits and hyphens. It returns
// "" when the file is absent or holds no such line.
func LastKnownUser(windowsClientDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(windowsClientDir, MachineFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", MachineFile, err)
	}

	for _, ln := range kv.SplitLines(string(data)) {
		l := kv.Classify(ln)
		if l.Kind == kv.KeyValue && l.Key == lastKnownUserKey && isUserID(l.Value) {
			return l.Value, nil
		}
	}

	return "", nil
}

func isUserID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '-' && !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// FindUserFolder picks the directory under baseDir whose name starts with
// lastKnownUser+"-" (case-insensitive). Each candidate scores one point for a
// Windows subdirectory and one for a WindowsClient subdirectory; the highest
// score wins and ties go to the lexicographically first name. It returns ""
// when lastKnownUser is empty or nothing matches.
func FindUserFolder(baseDir, lastKnownUser string) (string, error) {
	if lastKnownUser == "" {
		return "", nil
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", baseDir, err)
	}

	prefix := strings.ToLower(lastKnownUser) + "-"
	var candidates []string
	for _, e := range entries {
		if !strings.HasPrefix(strings.ToLower(e.Name()), prefix) {
			continue
		}
		p := filepath.Join(baseDir, e.Name())
		if isDir(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}

	// os.ReadDir returns entries sorted by name, so the stable sort keeps the
	// lexicographic order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i]) > score(candidates[j])
	})

	return candidates[0], nil
}

func score(dir string) int {
	s := 0
	if isDir(filepath.Join(dir, WindowsDir)) {
		s++
	}
	if isDir(filepath.Join(dir, WindowsClientDir)) {
		s++
	}
	return s
}

// isDir follows symlinks.
func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// BuildTargets lists the settings files to transform: the root file first,
// then the WindowsClient and Windows copies inside userFolder when set.
func BuildTargets(baseDir, userFolder string) []types.Target {
	targets := []types.Target{{
		Path:  RootSettings(baseDir),
		Label: "Root " + WindowsClientDir + "/" + SettingsFile,
	}}
	if userFolder == "" {
		return targets
	}

	name := filepath.Base(userFolder)
	return append(targets,
		types.Target{
			Path:  filepath.Join(userFolder, WindowsClientDir, SettingsFile),
			Label: name + "/" + WindowsClientDir + "/" + SettingsFile,
		},
		types.Target{
			Path:  filepath.Join(userFolder, WindowsDir, SettingsFile),
			Label: name + "/" + WindowsDir + "/" + SettingsFile,
		},
	)
}
