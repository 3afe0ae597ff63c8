package ckzlib

import (
	"fmt"
	"strings"
	"time"
)

// BackupFilename derives the artifact name for an encrypted manual backup:
// cookies[-<profile>]-<DD>-<MM>-<YYYY>-<HH>-<MM>-<SS>.ckz
func BackupFilename(profile string, at time.Time) string {
	var b strings.Builder
	b.WriteString("cookies")
	if profile != "" {
		b.WriteByte('-')
		b.WriteString(profile)
	}
	fmt.Fprintf(&b, "-%02d-%02d-%04d-%02d-%02d-%02d.ckz",
		at.Day(), int(at.Month()), at.Year(), at.Hour(), at.Minute(), at.Second())
	return b.String()
}

// AutoBackupFilename derives the artifact name for an unencrypted scheduled
// backup: cookies-auto[-<profile>]-<timestamp>.json
func AutoBackupFilename(profile string, at time.Time) string {
	var b strings.Builder
	b.WriteString("cookies-auto")
	if profile != "" {
		b.WriteByte('-')
		b.WriteString(profile)
	}
	fmt.Fprintf(&b, "-%d.json", at.Unix())
	return b.String()
}

// PlainBackupFilename derives the artifact name for an unencrypted manual
// export, using the manual timestamp layout with a .json extension.
func PlainBackupFilename(profile string, at time.Time) string {
	name := BackupFilename(profile, at)
	return strings.TrimSuffix(name, ".ckz") + ".json"
}
