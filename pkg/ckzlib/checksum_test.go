package ckzlib

import "testing"

func TestChecksumKnownValues(t *testing.T) {
	// Fixtures cross-checked against the extension's settings-export hash.
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "0",
		},
		{
			name:     "single character",
			input:    "a",
			expected: "61",
		},
		{
			name:     "hello",
			input:    "hello",
			expected: "5e918d2",
		},
		{
			name:     "negative fold keeps minus sign",
			input:    "polygenelubricants",
			expected: "-80000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.input); got != tt.expected {
				t.Errorf("Checksum(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestChecksumDeterministic(t *testing.T) {
	input := `[{"domain":".example.com","name":"sid","value":"abc123"}]`
	first := Checksum(input)
	for i := 0; i < 10; i++ {
		if got := Checksum(input); got != first {
			t.Fatalf("Checksum not deterministic: %q then %q", first, got)
		}
	}
}

func TestChecksumDistinguishesInputs(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"b",
		"ab",
		"ba",
		`{"version":1}`,
		`{"version":2}`,
		"cookie backup payload",
		"cookie backup payload ",
	}
	seen := make(map[string]string)
	for _, in := range inputs {
		sum := Checksum(in)
		if prev, ok := seen[sum]; ok && prev != in {
			t.Errorf("Checksum collision between %q and %q: %s", prev, in, sum)
		}
		seen[sum] = in
	}
}

func TestChecksumOrderSensitive(t *testing.T) {
	if Checksum("ab") == Checksum("ba") {
		t.Error("Checksum must be order-sensitive")
	}
}

func TestChecksumNonBMP(t *testing.T) {
	// U+1F36A hashes as a surrogate pair: h = 0xD83C, then h*31 + 0xDF6A.
	const want = "1b0eae"
	if got := Checksum("\U0001F36A"); got != want {
		t.Errorf("Checksum(cookie emoji) = %q, want %q", got, want)
	}
}
