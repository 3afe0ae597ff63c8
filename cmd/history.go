package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
)

var (
	lsLimit int

	historyFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "limit, n",
			Usage:       "show at most this many entries",
			Destination: &lsLimit,
		},
	}
)

func history(ctx *cli.Context) error {
	client, _, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "client", err)
		return nil
	}
	defer client.Close()

	entries, err := client.History(lsLimit)
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "list", err)
		return nil
	}
	if len(entries) == 0 {
		fmt.Println("No backups recorded yet.")
		return nil
	}

	fmt.Printf("%-20s  %-10s  %7s  %9s  %s\n",
		"DATE", "TYPE", "COOKIES", "SIZE", "FILE")
	for _, e := range entries {
		lock := ""
		if e.Encrypted {
			lock = " (encrypted)"
		}
		fmt.Printf("%-20s  %-10s  %7d  %9s  %s%s\n",
			e.Date.Format("2006-01-02 15:04:05"),
			e.Type,
			e.CookieCount,
			formatSize(e.Size),
			e.Filename,
			lock,
		)
	}
	return nil
}

func flush(ctx *cli.Context) error {
	client, _, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "flush", "client", err)
		return nil
	}
	defer client.Close()

	if _, err := client.FlushHistory(); err != nil {
		common.PrintRuntimeErr(ctx, "flush", "run", err)
		return nil
	}
	fmt.Println("Backup history cleared.")
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
