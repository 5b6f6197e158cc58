// Package keys implements the musical key arithmetic used when logging
// and displaying performances: signed semitone adjustments between keys
// on the 12-key chromatic circle, and transposition within a key's
// major/minor family.
package keys

// Key is one of the 24 musical keys (12 chromatic pitches, major and minor).
type Key int

const (
	CMajor Key = iota
	CSharpMajor
	DMajor
	DSharpMajor
	EMajor
	FMajor
	FSharpMajor
	GMajor
	GSharpMajor
	AMajor
	ASharpMajor
	BMajor
	CMinor
	CSharpMinor
	DMinor
	DSharpMinor
	EMinor
	FMinor
	FSharpMinor
	GMinor
	GSharpMinor
	AMinor
	ASharpMinor
	BMinor
)

// Adjustment bounds for user-entered semitone steps. Anything outside
// this range wraps around the circle and is never stored.
const (
	MinAdjustment = -6
	MaxAdjustment = 6
)

// sharpNames holds the canonical pitch-class spellings, indexed by
// semitones from C.
var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flatNames holds the enharmonic flat spellings ("" where the sharp
// spelling is the only one).
var flatNames = [12]string{"", "Db", "", "Eb", "", "", "Gb", "", "Ab", "", "Bb", ""}

// Semitones returns the key's pitch class as semitones from C, in [0, 11].
func (k Key) Semitones() int {
	return int(k) % 12
}

// IsMinor reports whether the key belongs to the minor family.
func (k Key) IsMinor() bool {
	return k >= CMinor
}

// String returns the canonical name, e.g. "C#", "Ebm".
func (k Key) String() string {
	name := sharpNames[k.Semitones()]
	if k.IsMinor() {
		return name + "m"
	}
	return name
}

// Display returns the name with the enharmonic alternative where one
// exists, e.g. "C#/Db", "F#m/Gbm".
func (k Key) Display() string {
	sharp := sharpNames[k.Semitones()]
	flat := flatNames[k.Semitones()]
	suffix := ""
	if k.IsMinor() {
		suffix = "m"
	}
	if flat == "" {
		return sharp + suffix
	}
	return sharp + suffix + "/" + flat + suffix
}

// Valid reports whether k is one of the 24 defined keys.
func (k Key) Valid() bool {
	return k >= CMajor && k <= BMinor
}

// AllKeys returns all 24 keys in declaration order.
func AllKeys() []Key {
	out := make([]Key, 0, 24)
	for k := CMajor; k <= BMinor; k++ {
		out = append(out, k)
	}
	return out
}

// Adjustment returns the signed semitone step count from one key to
// another, normalized into [-6, 6]. An exact tritone is always reported
// as +6, never -6.
func Adjustment(from, to Key) int {
	d := (to.Semitones() - from.Semitones()) % 12
	if d < 0 {
		d += 12
	}
	if d > 6 {
		d -= 12
	}
	return d
}

// Normalize wraps an arbitrary step count into the canonical [-6, 6]
// range, with the same tritone convention as Adjustment.
func Normalize(steps int) int {
	d := steps % 12
	if d < 0 {
		d += 12
	}
	if d > 6 {
		d -= 12
	}
	return d
}

// Transpose returns the key reached by moving steps semitones from k,
// staying within k's major/minor family.
func Transpose(k Key, steps int) Key {
	pitch := (k.Semitones() + steps) % 12
	if pitch < 0 {
		pitch += 12
	}
	if k.IsMinor() {
		return Key(pitch + 12)
	}
	return Key(pitch)
}

// ValidAdjustment reports whether n is a usable user-entered adjustment.
func ValidAdjustment(n int) bool {
	return n >= MinAdjustment && n <= MaxAdjustment
}
