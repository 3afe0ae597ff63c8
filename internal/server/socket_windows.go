//go:build windows

package server

import (
	"os"
	"strings"
)

const defaultPipeName = "ckzvault"

// PipePath returns the Windows named pipe path for the daemon. The
// CKZVAULT_PIPE_NAME variable may hold either a bare name or a full
// \\.\pipe\ path.
func PipePath() string {
	if name := os.Getenv(PipeNameEnv); name != "" {
		if strings.HasPrefix(name, `\\.\pipe\`) {
			return name
		}
		return `\\.\pipe\` + name
	}
	return `\\.\pipe\` + defaultPipeName
}
