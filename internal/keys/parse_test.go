package keys

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		input string
		want  Key
		ok    bool
	}{
		{"C", CMajor, true},
		{"c", CMajor, true},
		{"C#", CSharpMajor, true},
		{"Db", CSharpMajor, true},
		{"C#/Db", CSharpMajor, true},
		{"  Eb ", DSharpMajor, true},
		{"Am", AMinor, true},
		{"a minor", AMinor, true},
		{"F# min", FSharpMinor, true},
		{"Bbm", ASharpMinor, true},
		{"Bm", BMinor, true},
		{"G major", GMajor, true},
		{"Gmaj", GMajor, true},
		{"F#m/Gbm", FSharpMinor, true},

		{"", 0, false},
		{"H", 0, false},
		{"m", 0, false},
		{"do re mi", 0, false},
		{"C##", 0, false},
		{"123", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseKey(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseKey(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseKey(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseAdjustment(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"+4", 4, true},
		{"-3", -3, true},
		{"0", 0, true},
		{"4", 4, true},
		{"up 3 steps", 3, true},
		{"up 1 step", 1, true},
		{"down 2", -2, true},
		{"UP 5", 5, true},
		{" +6 ", 6, true},
		{"-6", -6, true},

		{"", 0, false},
		{"+7", 0, false},
		{"down 9", 0, false},
		{"sideways 2", 0, false},
		{"up", 0, false},
		{"banana", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAdjustment(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseAdjustment(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseAdjustment(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
