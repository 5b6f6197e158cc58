package keys

import "testing"

func TestTransposeZeroIsIdentity(t *testing.T) {
	for _, k := range AllKeys() {
		if got := Transpose(k, 0); got != k {
			t.Errorf("Transpose(%s, 0) = %s, want %s", k, got, k)
		}
	}
}

func TestTransposeStaysInFamily(t *testing.T) {
	for _, k := range AllKeys() {
		for s := -13; s <= 13; s++ {
			got := Transpose(k, s)
			if !got.Valid() {
				t.Fatalf("Transpose(%s, %d) = %d, not a valid key", k, s, got)
			}
			if got.IsMinor() != k.IsMinor() {
				t.Errorf("Transpose(%s, %d) = %s crossed the major/minor family", k, s, got)
			}
		}
	}
}

func TestAdjustmentRoundTrip(t *testing.T) {
	// Transposing up s steps and asking how to get back yields the
	// normalized inverse. The exact tritone is the one ambiguous case:
	// both directions are 6 steps, and the canonical answer is +6.
	for _, k := range AllKeys() {
		for s := -12; s <= 12; s++ {
			up := Transpose(k, s)
			back := Adjustment(up, k)

			if n := Normalize(s); n == 6 || n == -6 {
				if back != 6 {
					t.Errorf("Adjustment(%s, %s) = %d, want canonical +6 for tritone", up, k, back)
				}
				continue
			}
			if want := -Normalize(s); back != want {
				t.Errorf("Adjustment(Transpose(%s, %d), %s) = %d, want %d", k, s, k, back, want)
			}
		}
	}
}

func TestAdjustmentRange(t *testing.T) {
	for _, from := range AllKeys() {
		for _, to := range AllKeys() {
			got := Adjustment(from, to)
			if got < MinAdjustment || got > MaxAdjustment {
				t.Errorf("Adjustment(%s, %s) = %d, outside [%d, %d]",
					from, to, got, MinAdjustment, MaxAdjustment)
			}
		}
	}
}

func TestAdjustmentExamples(t *testing.T) {
	tests := []struct {
		from, to Key
		want     int
	}{
		{CMajor, CMajor, 0},
		{CMajor, DMajor, 2},
		{DMajor, CMajor, -2},
		{CMajor, FSharpMajor, 6}, // tritone, canonical sign
		{FSharpMajor, CMajor, 6},
		{BMajor, CMajor, 1},
		{CMinor, AMinor, -3},
		{AMinor, CMinor, 3},
	}
	for _, tt := range tests {
		if got := Adjustment(tt.from, tt.to); got != tt.want {
			t.Errorf("Adjustment(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransposeWraps(t *testing.T) {
	tests := []struct {
		key   Key
		steps int
		want  Key
	}{
		{BMajor, 1, CMajor},
		{CMajor, -1, BMajor},
		{AMinor, 3, CMinor},
		{CMajor, 12, CMajor},
		{CMajor, -12, CMajor},
		{GMinor, 7, DMinor},
	}
	for _, tt := range tests {
		if got := Transpose(tt.key, tt.steps); got != tt.want {
			t.Errorf("Transpose(%s, %d) = %s, want %s", tt.key, tt.steps, got, tt.want)
		}
	}
}

func TestDisplayNames(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{CMajor, "C"},
		{CSharpMajor, "C#/Db"},
		{AMinor, "Am"},
		{DSharpMinor, "D#m/Ebm"},
	}
	for _, tt := range tests {
		if got := tt.key.Display(); got != tt.want {
			t.Errorf("%d.Display() = %q, want %q", tt.key, got, tt.want)
		}
	}
}
