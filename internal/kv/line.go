// Package kv edits flat key=value text files line by line.
//
// Lines are kept as raw strings including their terminator. Only lines that
// classify as a key=value pair for a requested key are ever rewritten; every
// other line is passed through byte-identical.
package kv

import (
	"strings"
	"unicode"
)

// Kind tags the result of classifying one raw line
type Kind int

const (
	Other Kind = iota
	Comment
	KeyValue
)

func (k Kind) String() string {
	switch k {
	case Comment:
		return "comment"
	case KeyValue:
		return "keyvalue"
	default:
		return "other"
	}
}

// Line is a classified raw line. Key and Value are set only for KeyValue;
// Value has surrounding whitespace (and the line terminator) removed.
type Line struct {
	Kind  Kind
	Key   string
	Value string
}

// Classify recognizes `<ws>identifier<ws>=<ws>value<ws>` where identifier is
// one or more ASCII letters, digits or underscores. Lines whose first
// non-blank character is ';' or '#' are comments; anything else is Other.
func Classify(raw string) Line {
	s := strings.TrimLeftFunc(trimTerminator(raw), unicode.IsSpace)
	if s == "" {
		return Line{Kind: Other}
	}
	if s[0] == ';' || s[0] == '#' {
		return Line{Kind: Comment}
	}

	n := 0
	for n < len(s) && isIdentByte(s[n]) {
		n++
	}
	if n == 0 {
		return Line{Kind: Other}
	}

	rest := strings.TrimLeftFunc(s[n:], unicode.IsSpace)
	if !strings.HasPrefix(rest, "=") {
		return Line{Kind: Other}
	}

	return Line{
		Kind:  KeyValue,
		Key:   s[:n],
		Value: strings.TrimSpace(rest[1:]),
	}
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isDigits(s string) bool {
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

func trimTerminator(raw string) string {
	raw = strings.TrimSuffix(raw, "\n")
	return strings.TrimSuffix(raw, "\r")
}

// SplitLines splits s after every "\n", "\r\n" or lone "\r", keeping the
// terminators. strings.Join(SplitLines(s), "") == s for any input.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// Join concatenates lines back into file content.
func Join(lines []string) string {
	return strings.Join(lines, "")
}

// Values maps every key=value line's key to its value. When a key repeats,
// the last occurrence wins.
func Values(lines []string) map[string]string {
	got := make(map[string]string)
	for _, ln := range lines {
		if l := Classify(ln); l.Kind == KeyValue {
			got[l.Key] = l.Value
		}
	}
	return got
}
