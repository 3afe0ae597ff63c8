package ckzlib

import (
	"encoding/json"
	"testing"
)

func TestWrap(t *testing.T) {
	env := Wrap("ckz1.somepayload")
	if env.Version != EnvelopeVersion {
		t.Errorf("version = %d, want %d", env.Version, EnvelopeVersion)
	}
	if env.Payload != "ckz1.somepayload" {
		t.Errorf("payload = %q", env.Payload)
	}
	if env.Checksum != Checksum("ckz1.somepayload") {
		t.Errorf("checksum = %q, want %q", env.Checksum, Checksum("ckz1.somepayload"))
	}
	if !env.Verify() {
		t.Error("freshly wrapped envelope must verify")
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want bool
	}{
		{
			name: "matching checksum",
			env:  Envelope{Version: 1, Payload: "abc", Checksum: Checksum("abc")},
			want: true,
		},
		{
			name: "absent checksum verifies trivially",
			env:  Envelope{Version: 1, Payload: "abc"},
			want: true,
		},
		{
			name: "mismatched checksum",
			env:  Envelope{Version: 1, Payload: "abc", Checksum: "deadbeef"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.Verify(); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeShape(t *testing.T) {
	data, err := Wrap("payload").Encode()
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "payload", "checksum"} {
		if _, ok := m[key]; !ok {
			t.Errorf("encoded envelope missing %q", key)
		}
	}
}

func TestClassify(t *testing.T) {
	envJSON, err := Wrap("ckz1.payload").Encode()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		raw  string
		want ContentKind
	}{
		{
			name: "versioned envelope",
			raw:  string(envJSON),
			want: ContentEnvelope,
		},
		{
			name: "envelope with surrounding whitespace",
			raw:  "\n  " + string(envJSON) + "\n",
			want: ContentEnvelope,
		},
		{
			name: "plain cookie array",
			raw:  `[{"domain":"a.com","name":"n","value":"v"}]`,
			want: ContentPlainSnapshot,
		},
		{
			name: "empty cookie array",
			raw:  `[]`,
			want: ContentPlainSnapshot,
		},
		{
			name: "bare legacy ciphertext",
			raw:  "ckz1.AAAA",
			want: ContentLegacyCiphertext,
		},
		{
			name: "object without envelope shape",
			raw:  `{"foo":"bar"}`,
			want: ContentUnrecognized,
		},
		{
			name: "unsupported envelope version",
			raw:  `{"version":2,"payload":"x","checksum":"y"}`,
			want: ContentUnrecognized,
		},
		{
			name: "array of non-cookies",
			raw:  `[{"foo":1}]`,
			want: ContentUnrecognized,
		},
		{
			name: "free text",
			raw:  "hello world",
			want: ContentUnrecognized,
		},
		{
			name: "empty input",
			raw:  "",
			want: ContentUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got.Kind != tt.want {
				t.Fatalf("Classify kind = %v, want %v", got.Kind, tt.want)
			}
			switch tt.want {
			case ContentEnvelope:
				if got.Envelope == nil || got.Envelope.Payload == "" {
					t.Error("envelope result not populated")
				}
			case ContentLegacyCiphertext:
				if got.Ciphertext == "" {
					t.Error("ciphertext result not populated")
				}
			}
		})
	}
}

func TestClassifyLegacyMatchesEnvelopedOutcome(t *testing.T) {
	// A bare ciphertext and the same ciphertext inside an envelope must
	// decrypt to the same plaintext; the only difference is the missing
	// checksum on the legacy path.
	ct, err := Encrypt("password", "the payload", 0)
	if err != nil {
		t.Fatal(err)
	}

	legacy := Classify(ct)
	if legacy.Kind != ContentLegacyCiphertext {
		t.Fatalf("legacy kind = %v", legacy.Kind)
	}

	envJSON, err := Wrap(ct).Encode()
	if err != nil {
		t.Fatal(err)
	}
	wrapped := Classify(string(envJSON))
	if wrapped.Kind != ContentEnvelope {
		t.Fatalf("wrapped kind = %v", wrapped.Kind)
	}

	fromLegacy, err := Decrypt("password", legacy.Ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	fromEnvelope, err := Decrypt("password", wrapped.Envelope.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if fromLegacy != fromEnvelope {
		t.Errorf("legacy path decrypted %q, envelope path %q", fromLegacy, fromEnvelope)
	}
}
