package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/ckzvault/ckzvault/cmd/common"
	"github.com/ckzvault/ckzvault/pkg/ckzcli"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

var (
	rsPassword string
	rsStrict   bool
	rsDryRun   bool

	restoreFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "password, p",
			Usage:       "password the backup was encrypted with",
			Destination: &rsPassword,
		},
		cli.BoolFlag{
			Name:        "strict-checksum",
			Usage:       "treat an envelope checksum mismatch as a hard failure",
			Destination: &rsStrict,
		},
		cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "validate and decrypt without touching the browser",
			Destination: &rsDryRun,
		},
	}
)

func restore(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no backup file provided"))
	}
	if path == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		common.PrintRuntimeErr(ctx, "restore", "read_file", err)
		return nil
	}

	client, viaDaemon, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "restore", "client", err)
		return nil
	}
	defer client.Close()

	// The in-process path replays sequentially, so a progress bar can track
	// it. Daemon-side replay reports only the final tally.
	var p *mpb.Progress
	if lv, ok := client.(*localVault); ok && rsDryRun {
		p = mpb.New(mpb.WithWidth(64))
		var bar *mpb.Bar
		lv.onProgress = func(current, total int) {
			if bar == nil {
				bar = common.InitReplayBar(p, int64(total))
			}
			bar.SetCurrent(int64(current))
		}
	}

	report, err := client.Restore(string(data), &ckzcli.RestoreOpts{
		Password:       rsPassword,
		StrictChecksum: rsStrict,
		DryRun:         rsDryRun,
	})
	if p != nil {
		p.Wait()
	}
	if err != nil {
		if !viaDaemon {
			return common.PrintErrWithCmdHelp(ctx, err)
		}
		common.PrintRuntimeErr(ctx, "restore", "run", err)
		return nil
	}

	printRestoreReport(report, rsDryRun)
	return nil
}

func printRestoreReport(r *ckzlib.RestoreReport, dryRun bool) {
	verb := "Restored"
	if dryRun {
		verb = "Validated"
	}
	fmt.Printf("%s %d of %d cookies", verb, r.Restored, r.Total)
	if r.SkippedExpired > 0 {
		fmt.Printf(", %d expired", r.SkippedExpired)
	}
	if r.Failed > 0 {
		fmt.Printf(", %d failed", r.Failed)
	}
	fmt.Println()
	for _, f := range r.Failures {
		fmt.Printf("  %s (%s): %s\n", f.Name, f.Domain, f.Message)
	}
}
