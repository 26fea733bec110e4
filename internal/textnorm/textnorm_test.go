package textnorm

import "testing"

func TestStripNonASCII(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HeLLo©", "HeLLo"},
		{"plain text", "plain text"},
		{"café style", "caf style"},
		{"", ""},
		{"®©", ""},
	}
	for _, tt := range tests {
		if got := StripNonASCII(tt.in); got != tt.want {
			t.Fatalf("StripNonASCII(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripPreservesCase(t *testing.T) {
	// The relay path relies on the strip never touching casing.
	if got := StripNonASCII("HeLLo©"); got != "HeLLo" {
		t.Fatalf("expected HeLLo, got %q", got)
	}
}

func TestExpandAbbreviations(t *testing.T) {
	got := ExpandAbbreviations("TNX fer the msg, 73", DefaultAbbreviations)
	want := "thanks for the message, 73"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSmartTitleCasePreservesCallsigns(t *testing.T) {
	got := SmartTitleCase("w1abc checking in from TX", nil)
	if got != "W1ABC Checking In From TX" {
		t.Fatalf("got %q", got)
	}
}

func TestSmartTitleCaseKeepsAcronyms(t *testing.T) {
	got := SmartTitleCase("NVIS antenna works on HF", nil)
	if got != "NVIS Antenna Works On HF" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("pse cpy wx report", nil)
	if got != "Please Copy Weather Report" {
		t.Fatalf("got %q", got)
	}
}
