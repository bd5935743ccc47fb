package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "   ", want: ""},
		{name: "us local", input: "(415) 555-2671", want: "+14155552671"},
		{name: "already e164", input: "+14155552671", want: "+14155552671"},
		{name: "garbage kept", input: " call me ", want: "call me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeE164RegionNL(t *testing.T) {
	if got := NormalizeE164Region("06 12345678", "NL"); got != "+31612345678" {
		t.Errorf("got %q", got)
	}
}
