package keys

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "up 3 steps", "down 2", "up 1 step"
	phrasePattern = regexp.MustCompile(`^(up|down)\s+(\d+)(\s+steps?)?$`)

	// "+4", "-3", "4"
	numberPattern = regexp.MustCompile(`^[+-]?\d+$`)
)

// pitchIndex maps accepted pitch-class spellings to semitones from C.
// Covers sharps, flats and the common enharmonic aliases.
var pitchIndex = map[string]int{
	"c":  0,
	"c#": 1, "db": 1,
	"d":  2,
	"d#": 3, "eb": 3,
	"e":  4,
	"f":  5,
	"f#": 6, "gb": 6,
	"g":  7,
	"g#": 8, "ab": 8,
	"a":  9,
	"a#": 10, "bb": 10,
	"b": 11,
}

// ParseKey parses a free-text key name. Accepted forms include
// canonical names ("C#", "Db"), combined enharmonic forms ("C#/Db"),
// and minor suffixes ("Am", "c# min", "D minor"). Unparseable input
// returns ok=false.
func ParseKey(s string) (Key, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	// Combined form: both sides name the same pitch, the first wins
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}

	minor := false
	for _, suffix := range []string{"minor", "min", "m"} {
		if strings.HasSuffix(s, suffix) {
			rest := strings.TrimSpace(strings.TrimSuffix(s, suffix))
			// "m" alone is not a key, and "bm" must not strip to "b"
			// unless the remainder still names a pitch
			if _, ok := pitchIndex[rest]; ok {
				minor = true
				s = rest
			}
			break
		}
	}
	if !minor {
		for _, suffix := range []string{"major", "maj"} {
			if strings.HasSuffix(s, suffix) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				break
			}
		}
	}

	pitch, ok := pitchIndex[s]
	if !ok {
		return 0, false
	}
	if minor {
		return Key(pitch + 12), true
	}
	return Key(pitch), true
}

// ParseAdjustment parses a free-text semitone adjustment: "+4", "-3",
// "2", "up 3 steps", "down 2". Values outside [-6, 6] are rejected.
// Unparseable input returns ok=false.
func ParseAdjustment(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	if m := phrasePattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		if m[1] == "down" {
			n = -n
		}
		if !ValidAdjustment(n) {
			return 0, false
		}
		return n, true
	}

	if numberPattern.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil || !ValidAdjustment(n) {
			return 0, false
		}
		return n, true
	}

	return 0, false
}
