package ckzlib

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Ciphertext layout: the "ckz1." prefix followed by base64 of
// salt[16] + iterations(uint32 BE) + nonce[12] + AES-256-GCM output.
// The string is self-describing: Decrypt needs only the password.
const (
	cipherPrefix = "ckz1."

	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	// MinPasswordLen is the minimum accepted encryption password length.
	// Enforced once, at the producer entry, not re-validated here.
	MinPasswordLen = 4

	// DefaultIterations is the PBKDF2 iteration count for standard backups.
	DefaultIterations = 1000
	// EnhancedIterations is the iteration count for the enhanced profile.
	EnhancedIterations = 10000

	// maxIterations bounds the iteration count accepted from a ciphertext
	// header so a crafted input cannot stall decryption.
	maxIterations = 10_000_000
)

// Encrypt derives a key from password with PBKDF2-SHA256 and seals plaintext
// with AES-256-GCM. Salt and nonce are freshly random on every call, so two
// encryptions of the same plaintext never produce the same ciphertext.
// iterations <= 0 selects DefaultIterations.
func Encrypt(password, plaintext string, iterations int) (string, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	gcm, err := newGCM(password, salt, iterations)
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	buf := make([]byte, 0, saltSize+4+nonceSize+len(sealed))
	buf = append(buf, salt...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(iterations))
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)

	return cipherPrefix + base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt reverses Encrypt. It fails with DecryptionError{MalformedCiphertext}
// when the input is not a parseable ciphertext, and with
// DecryptionError{WrongPassword} when GCM authentication fails.
func Decrypt(password, ciphertext string) (string, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(ciphertext), cipherPrefix)
	if !ok {
		return "", &DecryptionError{Kind: MalformedCiphertext}
	}

	buf, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", &DecryptionError{Kind: MalformedCiphertext, Cause: err}
	}
	// The GCM tag alone is 16 bytes, so anything shorter than the header
	// plus tag cannot be a valid ciphertext.
	if len(buf) < saltSize+4+nonceSize+16 {
		return "", &DecryptionError{Kind: MalformedCiphertext}
	}

	salt := buf[:saltSize]
	iterations := int(binary.BigEndian.Uint32(buf[saltSize : saltSize+4]))
	nonce := buf[saltSize+4 : saltSize+4+nonceSize]
	sealed := buf[saltSize+4+nonceSize:]

	if iterations < 1 || iterations > maxIterations {
		return "", &DecryptionError{Kind: MalformedCiphertext}
	}

	gcm, err := newGCM(password, salt, iterations)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &DecryptionError{Kind: WrongPassword, Cause: err}
	}
	return string(plaintext), nil
}

// IsCiphertext reports whether s carries the ciphertext prefix. It does not
// validate the body; Decrypt does that.
func IsCiphertext(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), cipherPrefix)
}

func newGCM(password string, salt []byte, iterations int) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
