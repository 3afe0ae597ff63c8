package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
)

// schedule shows the automatic backup cadence, or sets it when a token is
// given as the first argument.
func schedule(ctx *cli.Context) error {
	client, _, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "schedule", "client", err)
		return nil
	}
	defer client.Close()

	cadence := ctx.Args().First()
	if cadence == "" {
		info, err := client.Schedule()
		if err != nil {
			common.PrintRuntimeErr(ctx, "schedule", "get", err)
			return nil
		}
		if info.Cadence == "" || info.Cadence == "off" {
			fmt.Println("Automatic backups are off.")
			return nil
		}
		fmt.Printf("Automatic backups: %s", info.Cadence)
		if !info.NextRun.IsZero() {
			fmt.Printf(" (next run %s)", info.NextRun.Local().Format(time.RFC1123))
		}
		fmt.Println()
		return nil
	}
	if cadence == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	info, err := client.SetSchedule(cadence)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	if info.Cadence == "off" {
		fmt.Println("Automatic backups turned off.")
		return nil
	}
	fmt.Printf("Automatic backups set to %s", info.Cadence)
	if !info.NextRun.IsZero() {
		fmt.Printf(" (next run %s)", info.NextRun.Local().Format(time.RFC1123))
	}
	fmt.Println()
	return nil
}
