package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
)

// BuildArgs carries build-time metadata injected through ldflags.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

// Execute runs the CLI with the given arguments.
func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	common.VersionCmdStr = fmt.Sprintf(
		"ckzvault %s (%s_%s)\nBuild: %s=%s",
		bArgs.Version, runtime.GOOS, runtime.GOARCH, bArgs.Date, bArgs.Commit,
	)
	app := cli.App{
		Name:                  "ckzvault",
		HelpName:              "ckzvault",
		Usage:                 "A cookie backup and restore companion.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "ckzvault <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "daemon",
				Usage:              "run the vault daemon in the foreground",
				Action:             daemonCmd,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DaemonDescription,
				Flags:              daemonFlags,
			},
			{
				Name:                   "backup",
				Aliases:                []string{"b"},
				Usage:                  "back up browser cookies",
				Action:                 backup,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            BackupDescription,
				UseShortOptionHandling: true,
				Flags:                  backupFlags,
			},
			{
				Name:                   "restore",
				Aliases:                []string{"r"},
				Usage:                  "restore cookies from a backup archive",
				Action:                 restore,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            RestoreDescription,
				UseShortOptionHandling: true,
				Flags:                  restoreFlags,
			},
			{
				Name:                   "history",
				Aliases:                []string{"l"},
				Usage:                  "display the backup history",
				Action:                 history,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            HistoryDescription,
				UseShortOptionHandling: true,
				Flags:                  historyFlags,
			},
			{
				Name:                   "flush",
				Aliases:                []string{"c"},
				Usage:                  "clear the backup history",
				Action:                 flush,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            FlushDescription,
				UseShortOptionHandling: true,
			},
			{
				Name:               "inspect",
				Aliases:            []string{"i"},
				Usage:              "classify a backup file without decrypting it",
				Action:             inspect,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        InspectDescription,
			},
			{
				Name:               "schedule",
				Aliases:            []string{"s"},
				Usage:              "show or change the automatic backup cadence",
				Action:             schedule,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ScheduleDescription,
			},
			{
				Name:         "creds",
				Usage:        "manage chat push credentials",
				OnUsageError: common.UsageErrorCallback,
				Description:  CredsDescription,
				Subcommands: []cli.Command{
					{
						Name:   "set",
						Usage:  "store push credentials in the keyring",
						Action: credsSet,
						Flags:  credsFlags,
					},
					{
						Name:   "show",
						Usage:  "print the stored destination (token redacted)",
						Action: credsShow,
					},
					{
						Name:   "clear",
						Usage:  "remove stored credentials",
						Action: credsClear,
					},
				},
			},
			{
				Name:   "host",
				Usage:  "run as a native messaging host for the extension",
				Action: host,
				Hidden: true,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints the installed version of ckzvault",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:                 common.Help,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
	return app.Run(args)
}
