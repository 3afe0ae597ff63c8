package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// inspect classifies a backup file without needing its password.
func inspect(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no backup file provided"))
	}
	if path == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		common.PrintRuntimeErr(ctx, "inspect", "read_file", err)
		return nil
	}

	classified := ckzlib.Classify(string(data))
	switch classified.Kind {
	case ckzlib.ContentEnvelope:
		env := classified.Envelope
		fmt.Printf("%s: encrypted backup envelope (version %d)\n", path, env.Version)
		switch {
		case env.Checksum == "":
			fmt.Println("  checksum: absent")
		case env.Verify():
			fmt.Println("  checksum: ok")
		default:
			fmt.Println("  checksum: MISMATCH")
		}
		fmt.Println("  a password is required to restore this file")

	case ckzlib.ContentLegacyCiphertext:
		fmt.Printf("%s: legacy encrypted backup (no envelope, no checksum)\n", path)
		fmt.Println("  a password is required to restore this file")

	case ckzlib.ContentPlainSnapshot:
		fmt.Printf("%s: plain cookie snapshot, %d cookies, no password needed\n",
			path, len(classified.Snapshot))

	default:
		fmt.Printf("%s: not a recognizable backup file\n", path)
	}
	return nil
}
