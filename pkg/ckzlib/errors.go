package ckzlib

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection is returned when a supplied backup filter matches
	// none of the collected cookies.
	ErrEmptySelection = errors.New("no cookies to back up")

	// ErrPasswordTooShort is returned by the producer when an encryption
	// password shorter than MinPasswordLen is supplied.
	ErrPasswordTooShort = fmt.Errorf("backup password must be at least %d characters", MinPasswordLen)

	// ErrPasswordRequired is returned by the consumer when the input is
	// encrypted but no password was supplied.
	ErrPasswordRequired = errors.New("this backup is encrypted, a password is required")

	// ErrBackupInFlight is returned when an automatic backup is requested
	// while another automatic backup is still running.
	ErrBackupInFlight = errors.New("an automatic backup is already in progress")
)

// CollectionError wraps a cookie-store read failure. The whole backup
// operation aborts; nothing is emitted and nothing is recorded.
type CollectionError struct {
	Cause error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("failed to collect cookies: %v", e.Cause)
}

func (e *CollectionError) Unwrap() error { return e.Cause }

// DecryptionKind classifies why a decryption attempt failed.
type DecryptionKind int

const (
	// WrongPassword means GCM authentication failed. A wrong password and a
	// corrupted ciphertext are indistinguishable here.
	WrongPassword DecryptionKind = iota
	// MalformedCiphertext means the input is not a parseable ciphertext at all.
	MalformedCiphertext
)

// DecryptionError is returned by Decrypt and by the restore consumer for the
// encrypted path. The restore aborts before any cookie is written.
type DecryptionError struct {
	Kind  DecryptionKind
	Cause error
}

func (e *DecryptionError) Error() string {
	switch e.Kind {
	case WrongPassword:
		return "password incorrect"
	default:
		return "not a valid backup file"
	}
}

func (e *DecryptionError) Unwrap() error { return e.Cause }

// ParseError means the snapshot content is not valid JSON or not an array.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decrypted data doesn't contain valid cookies: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// SchemaError means the snapshot array is non-empty but its first element
// lacks one of the required cookie fields.
type SchemaError struct {
	MissingField string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("decrypted data doesn't contain valid cookies: missing %q field", e.MissingField)
}

// ChecksumMismatch reports that an envelope checksum did not match its
// payload. Advisory by default; fatal only when StrictChecksum is set.
type ChecksumMismatch struct {
	Expected string
	Actual   string
}

func (e *ChecksumMismatch) Error() string {
	return fmt.Sprintf("backup checksum mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// EmissionError wraps a single sink failure during backup emission. It is
// isolated to that sink; other sinks and the overall operation are unaffected.
type EmissionError struct {
	Sink  string
	Cause error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("emission to %s failed: %v", e.Sink, e.Cause)
}

func (e *EmissionError) Unwrap() error { return e.Cause }
