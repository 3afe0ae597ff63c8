package main

import (
	"fmt"
	"os"

	"github.com/ckzvault/ckzvault/cmd"
)

// Overridden through ldflags at release time.
var (
	version   = "v0.1.0"
	buildType = "dev"
	date      = "unknown"
	commit    = "unknown"
)

func main() {
	err := cmd.Execute(os.Args, cmd.BuildArgs{
		Version:   version,
		BuildType: buildType,
		Date:      date,
		Commit:    commit,
	})
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
