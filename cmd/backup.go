package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
	"github.com/ckzvault/ckzvault/internal/cookies"
	"github.com/ckzvault/ckzvault/internal/remote"
	"github.com/ckzvault/ckzvault/pkg/ckzcli"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

var (
	bkPassword   string
	bkEnhanced   bool
	bkProfile    string
	bkDomains    string
	bkScriptPath string
	bkPush       bool
	bkFrom       string
	bkSFTP       string
	bkFTP        string
	bkSSHKey     string

	backupFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "password, p",
			Usage:       "encrypt the backup with this password (min 4 characters)",
			Destination: &bkPassword,
		},
		cli.BoolFlag{
			Name:        "enhanced, e",
			Usage:       "use the enhanced key-derivation profile (slower, stronger)",
			Destination: &bkEnhanced,
		},
		cli.StringFlag{
			Name:        "profile",
			Usage:       "profile label embedded in the backup filename",
			Destination: &bkProfile,
		},
		cli.StringFlag{
			Name:        "domains, d",
			Usage:       "comma-separated domains to back up (subdomains included)",
			Destination: &bkDomains,
		},
		cli.StringFlag{
			Name:        "filter-script",
			Usage:       "path to a JavaScript predicate deciding which cookies to keep",
			Destination: &bkScriptPath,
		},
		cli.BoolFlag{
			Name:        "push",
			Usage:       "also deliver the backup to the configured chat bot",
			Destination: &bkPush,
		},
		cli.StringFlag{
			Name:        "from, f",
			Usage:       "read cookies from a file or browser store instead of the extension (json, csv, cookies.txt, Chrome/Firefox sqlite)",
			Destination: &bkFrom,
		},
		cli.StringFlag{
			Name:        "sftp",
			Usage:       "additionally upload the backup to an sftp:// destination",
			Destination: &bkSFTP,
		},
		cli.StringFlag{
			Name:        "ftp",
			Usage:       "additionally upload the backup to an ftp:// destination",
			Destination: &bkFTP,
		},
		cli.StringFlag{
			Name:        "ssh-key",
			Usage:       "private key file for the sftp upload",
			Destination: &bkSSHKey,
		},
	}
)

func backup(ctx *cli.Context) error {
	opts := &ckzcli.BackupOpts{
		Password: bkPassword,
		Enhanced: bkEnhanced,
		Profile:  bkProfile,
		Domains:  splitDomains(bkDomains),
		Push:     bkPush,
	}
	if bkScriptPath != "" {
		src, err := os.ReadFile(bkScriptPath)
		if err != nil {
			common.PrintRuntimeErr(ctx, "backup", "filter_script", err)
			return nil
		}
		opts.Script = string(src)
	}

	var dump []ckzlib.CookieRecord
	if bkFrom != "" {
		records, info, err := cookies.Load(bkFrom, logger.NewNopLogger())
		if err != nil {
			common.PrintRuntimeErr(ctx, "backup", "load_cookies", err)
			return nil
		}
		dump = records
		fmt.Printf("Loaded %d cookies from %s (%s)\n", len(records), bkFrom, info.Format)
	}

	client, viaDaemon, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "backup", "client", err)
		return nil
	}
	defer client.Close()

	if dc, ok := client.(*ckzcli.Client); ok && len(dump) == 0 {
		if st, err := dc.Status(); err == nil && !st.ExtensionConnected {
			common.PrintRuntimeErr(ctx, "backup", "extension",
				errors.New("browser extension is not connected: open the browser or pass --from <file>"))
			return nil
		}
	}

	res, err := client.Backup(dump, opts)
	if err != nil {
		if errors.Is(err, errNoCookieSource) && !viaDaemon {
			return common.PrintErrWithCmdHelp(ctx, err)
		}
		common.PrintRuntimeErr(ctx, "backup", "run", err)
		return nil
	}

	printBackupResult(res)
	return uploadRemote(ctx, res)
}

// uploadRemote ships the produced artifact to the requested sftp/ftp
// destinations. The artifact is read back from the local backup directory,
// which the daemon shares with the CLI.
func uploadRemote(ctx *cli.Context, res *ckzlib.BackupResult) error {
	if bkSFTP == "" && bkFTP == "" {
		return nil
	}

	settings, err := ckzlib.LoadSettings()
	if err != nil {
		common.PrintRuntimeErr(ctx, "backup", "settings", err)
		return nil
	}
	dir := settings.BackupDir
	if dir == "" {
		dir = ckzlib.BackupDir
	}
	data, err := os.ReadFile(filepath.Join(dir, res.Filename))
	if err != nil {
		common.PrintRuntimeErr(ctx, "backup", "read_artifact", err)
		return nil
	}

	var sinks []ckzlib.Sink
	if bkSFTP != "" {
		var opts []remote.SFTPOption
		if bkSSHKey != "" {
			opts = append(opts, remote.WithSSHKey(bkSSHKey))
		}
		sink, err := remote.NewSFTPSink(bkSFTP, opts...)
		if err != nil {
			common.PrintRuntimeErr(ctx, "backup", "sftp", err)
			return nil
		}
		sinks = append(sinks, sink)
	}
	if bkFTP != "" {
		sink, err := remote.NewFTPSink(bkFTP)
		if err != nil {
			common.PrintRuntimeErr(ctx, "backup", "ftp", err)
			return nil
		}
		sinks = append(sinks, sink)
	}

	for _, sink := range sinks {
		upCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := sink.Emit(upCtx, res.Filename, data)
		cancel()
		if err != nil {
			fmt.Printf("Upload to %s failed: %s\n", sink.Name(), err.Error())
			continue
		}
		fmt.Printf("Uploaded to %s\n", sink.Name())
	}
	return nil
}

func printBackupResult(res *ckzlib.BackupResult) {
	kind := "plain"
	if res.Encrypted {
		kind = "encrypted"
	}
	fmt.Printf("Backed up %d cookies to %s (%s, %d bytes)\n",
		res.CookieCount, res.Filename, kind, res.Size)
	for _, s := range res.Sinks {
		if s.Err != nil {
			fmt.Printf("  %s: failed: %s\n", s.Sink, s.Err.Error())
			continue
		}
		fmt.Printf("  %s: ok\n", s.Sink)
	}
}

func splitDomains(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
