package ckzlib

import (
	"strconv"
	"unicode/utf16"
)

// Checksum computes the integrity digest used by backup envelopes and
// settings exports: a rolling hash over the UTF-16 code units of s, folded
// into a 32-bit signed integer and rendered as hexadecimal text. Negative
// hash values keep their leading minus sign; callers must compare the hex
// string exactly, never numerically.
//
// This is corruption detection, not a cryptographic primitive. Tampering is
// caught by the authenticated cipher, not by this digest.
func Checksum(s string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(u)
	}
	return strconv.FormatInt(int64(h), 16)
}
