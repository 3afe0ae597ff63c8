package ckzlib

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		plaintext  string
		iterations int
	}{
		{
			name:      "default iterations",
			password:  "hunter2sh",
			plaintext: `[{"domain":".example.com","name":"sid","value":"abc","secure":true,"httpOnly":false}]`,
		},
		{
			name:       "enhanced iterations",
			password:   "correct horse battery staple",
			plaintext:  "payload",
			iterations: EnhancedIterations,
		},
		{
			name:      "empty plaintext",
			password:  "pass",
			plaintext: "",
		},
		{
			name:      "unicode plaintext",
			password:  "päss",
			plaintext: "ünïcødé 🍪",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := Encrypt(tt.password, tt.plaintext, tt.iterations)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			if !IsCiphertext(ct) {
				t.Fatalf("ciphertext %q lacks prefix", ct)
			}
			pt, err := Decrypt(tt.password, ct)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if pt != tt.plaintext {
				t.Errorf("round trip = %q, want %q", pt, tt.plaintext)
			}
		})
	}
}

func TestEncryptNonDeterministic(t *testing.T) {
	// Fresh salt and nonce per call: identical inputs must never produce
	// identical ciphertexts.
	a, err := Encrypt("password", "same plaintext", 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encrypt("password", "same plaintext", 0)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two encryptions of the same input produced the same ciphertext")
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	ct, err := Encrypt("rightpass", "secret cookies", 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Decrypt("wrongpass", ct)
	var dErr *DecryptionError
	if !errors.As(err, &dErr) {
		t.Fatalf("expected DecryptionError, got %v", err)
	}
	if dErr.Kind != WrongPassword {
		t.Errorf("kind = %v, want WrongPassword", dErr.Kind)
	}
}

func TestDecryptCorruptedCiphertext(t *testing.T) {
	ct, err := Encrypt("rightpass", "secret cookies", 0)
	if err != nil {
		t.Fatal(err)
	}
	// Flip a byte inside the sealed body. Auth failure is indistinguishable
	// from a wrong password by design.
	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(ct, "ckz1."))
	raw[len(raw)-1] ^= 0xff
	tampered := "ckz1." + base64.StdEncoding.EncodeToString(raw)

	_, err = Decrypt("rightpass", tampered)
	var dErr *DecryptionError
	if !errors.As(err, &dErr) || dErr.Kind != WrongPassword {
		t.Fatalf("expected WrongPassword for tampered body, got %v", err)
	}
}

func TestDecryptMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no prefix", input: "not a ciphertext"},
		{name: "bad base64", input: "ckz1.!!!not-base64!!!"},
		{name: "truncated body", input: "ckz1." + base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt("password", tt.input)
			var dErr *DecryptionError
			if !errors.As(err, &dErr) {
				t.Fatalf("expected DecryptionError, got %v", err)
			}
			if dErr.Kind != MalformedCiphertext {
				t.Errorf("kind = %v, want MalformedCiphertext", dErr.Kind)
			}
		})
	}
}

func TestDecryptRejectsAbsurdIterationCount(t *testing.T) {
	ct, err := Encrypt("password", "payload", 0)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(ct, "ckz1."))
	// Overwrite the iteration header with an out-of-range value.
	raw[saltSize] = 0xff
	raw[saltSize+1] = 0xff
	raw[saltSize+2] = 0xff
	raw[saltSize+3] = 0xff
	crafted := "ckz1." + base64.StdEncoding.EncodeToString(raw)

	_, err = Decrypt("password", crafted)
	var dErr *DecryptionError
	if !errors.As(err, &dErr) || dErr.Kind != MalformedCiphertext {
		t.Fatalf("expected MalformedCiphertext for crafted iteration count, got %v", err)
	}
}
