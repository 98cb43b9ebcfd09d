package kv

// Keys of the brightness/fullscreen pair. The game reverts FullscreenMode
// unless it directly follows HDRDisplayOutputNits.
const (
	BrightnessKey = "HDRDisplayOutputNits"
	FullscreenKey = "FullscreenMode"
)

// Update is the desired final state of one key. An Update with Set == false
// is a no-op and leaves the key untouched.
type Update struct {
	Key   string
	Value string
	Set   bool
}

// Set returns an Update that forces key to value.
func Set(key, value string) Update {
	return Update{Key: key, Value: value, Set: true}
}

// Keep returns a no-op Update for key.
func Keep(key string) Update {
	return Update{Key: key}
}

// Updates is an ordered set of key updates. Order decides where missing keys
// are appended.
type Updates []Update

// ApplyUpdates rewrites every key=value line whose key has a Set update to
// "key=value\n" and appends "key=value\n" for Set keys that never appeared,
// in Updates order. changed reports whether the output differs from lines.
func ApplyUpdates(lines []string, updates Updates) (out []string, changed bool) {
	want := make(map[string]string, len(updates))
	var order []string
	for _, u := range updates {
		if !u.Set {
			continue
		}
		if _, dup := want[u.Key]; !dup {
			order = append(order, u.Key)
		}
		want[u.Key] = u.Value
	}

	found := make(map[string]bool, len(want))
	out = make([]string, 0, len(lines)+len(order))
	for _, ln := range lines {
		if l := Classify(ln); l.Kind == KeyValue {
			if v, ok := want[l.Key]; ok {
				if next := l.Key + "=" + v + "\n"; ln != next {
					ln = next
					changed = true
				}
				found[l.Key] = true
			}
		}
		out = append(out, ln)
	}

	for _, k := range order {
		if !found[k] {
			out = append(out, k+"="+want[k]+"\n")
			changed = true
		}
	}

	return out, changed
}

// EnforcePairOrder pins BrightnessKey=nits immediately followed by
// FullscreenKey=mode. Each numeric BrightnessKey line is rewritten and gets
// its own FullscreenKey line after it; every numeric FullscreenKey line
// elsewhere is dropped. Without any BrightnessKey line the pair is appended
// at the end, after a newline if the content does not already end with one.
// inserted is always true since a FullscreenKey line is always emitted.
func EnforcePairOrder(lines []string, nits, mode string) (out []string, inserted bool) {
	brightness := BrightnessKey + "=" + nits + "\n"
	fullscreen := FullscreenKey + "=" + mode + "\n"

	seen := false
	out = make([]string, 0, len(lines)+2)
	for _, ln := range lines {
		l := Classify(ln)
		switch {
		case l.Kind == KeyValue && l.Key == BrightnessKey && isDigits(l.Value):
			out = append(out, brightness, fullscreen)
			seen = true
		case l.Kind == KeyValue && l.Key == FullscreenKey && isDigits(l.Value):
			// re-emitted after the brightness line
		default:
			out = append(out, ln)
		}
	}

	if !seen {
		if len(out) == 0 || !endsWithNewline(out[len(out)-1]) {
			out = append(out, "\n")
		}
		out = append(out, brightness, fullscreen)
	}

	return out, true
}

func endsWithNewline(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '\n'
}
