package ckzlib

import (
	"encoding/json"
	"strings"
)

// EnvelopeVersion is the only defined backup envelope version.
const EnvelopeVersion = 1

// Envelope is the versioned wrapper written around a ciphertext:
// {"version":1,"payload":"...","checksum":"..."}. It is created once per
// backup, consumed once per restore, never mutated.
type Envelope struct {
	Version  int    `json:"version"`
	Payload  string `json:"payload"`
	Checksum string `json:"checksum,omitempty"`
}

// Wrap builds a version-1 envelope around payload, stamping the payload
// checksum computed at encryption time.
func Wrap(payload string) *Envelope {
	return &Envelope{
		Version:  EnvelopeVersion,
		Payload:  payload,
		Checksum: Checksum(payload),
	}
}

// Verify reports whether the envelope checksum matches its payload. An
// absent checksum verifies trivially: there is nothing to check. A mismatch
// is advisory in the default pipeline configuration; it catches transport
// corruption and accidental edits, not tampering.
func (e *Envelope) Verify() bool {
	if e.Checksum == "" {
		return true
	}
	return e.Checksum == Checksum(e.Payload)
}

// Encode renders the envelope as the JSON written to .ckz files.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// ContentKind tags the result of classifying raw backup input.
type ContentKind int

const (
	// ContentUnrecognized means the input matched no known backup shape.
	ContentUnrecognized ContentKind = iota
	// ContentEnvelope means a version-1 {version,payload,checksum} wrapper.
	ContentEnvelope
	// ContentLegacyCiphertext means a bare ciphertext string with no wrapper,
	// as written by pre-envelope versions. No checksum is available, so
	// verification is skipped.
	ContentLegacyCiphertext
	// ContentPlainSnapshot means an unencrypted JSON cookie array.
	ContentPlainSnapshot
)

// Classified is the tagged result of Classify. Exactly one of Envelope,
// Ciphertext or Snapshot is populated, matching Kind.
type Classified struct {
	Kind       ContentKind
	Envelope   *Envelope
	Ciphertext string
	Snapshot   Snapshot
}

// Classify inspects raw backup input and decides which restore path applies.
// It replaces nested try-parse probing with a single decision point: a JSON
// object with the envelope shape, a JSON cookie array, a bare ciphertext
// string, or unrecognized content.
func Classify(raw string) Classified {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "{") {
		var env Envelope
		if err := json.Unmarshal([]byte(trimmed), &env); err == nil &&
			env.Version == EnvelopeVersion && env.Payload != "" {
			return Classified{Kind: ContentEnvelope, Envelope: &env}
		}
		return Classified{Kind: ContentUnrecognized}
	}

	if strings.HasPrefix(trimmed, "[") {
		if snap, err := DeserializeSnapshot(trimmed); err == nil {
			return Classified{Kind: ContentPlainSnapshot, Snapshot: snap}
		}
		return Classified{Kind: ContentUnrecognized}
	}

	if IsCiphertext(trimmed) {
		return Classified{Kind: ContentLegacyCiphertext, Ciphertext: trimmed}
	}

	return Classified{Kind: ContentUnrecognized}
}
