package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
	"github.com/ckzvault/ckzvault/internal/daemon"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

var (
	dmPort int

	daemonFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "port",
			Usage:       "loopback port for the extension bridge",
			Value:       DEF_WEB_PORT,
			Destination: &dmPort,
		},
	}
)

func daemonCmd(ctx *cli.Context) error {
	lg := logger.NewStandardLogger(log.Default())
	defer lg.Close()

	d, err := daemon.New(&daemon.Config{
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
		WebPort:   dmPort,
		RPCSecret: os.Getenv(RPC_SECRET_ENV),
	}, lg, nil)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "new", err)
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return d.Run(runCtx)
}
