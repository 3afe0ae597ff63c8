//go:build windows

package ckzcli

import (
	"os"
	"strings"
)

// PipeNameEnv overrides the named pipe the client dials.
const PipeNameEnv = "CKZVAULT_PIPE_NAME"

const defaultPipeName = "ckzvault"

// PipePath returns the daemon's named pipe path. The CKZVAULT_PIPE_NAME
// variable may hold either a bare name or a full \\.\pipe\ path.
func PipePath() string {
	if name := os.Getenv(PipeNameEnv); name != "" {
		if strings.HasPrefix(name, `\\.\pipe\`) {
			return name
		}
		return `\\.\pipe\` + name
	}
	return `\\.\pipe\` + defaultPipeName
}
