package core

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "dot separator", input: "12.34", wantCents: 1234},
		{name: "comma separator", input: "12,34", wantCents: 1234},
		{name: "integer", input: "50", wantCents: 5000},
		{name: "rounds half up", input: "12.346", wantCents: 1235},
		{name: "rounds down", input: "12.344", wantCents: 1234},
		{name: "leading whitespace", input: "  7.5", wantCents: 750},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-3.50", wantErr: true},
		{name: "garbage", input: "12.3.4", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseAmount(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{5, "0.05"},
		{100, "1.00"},
		{-250, "-2.50"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
