package cmd

import (
	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
	"github.com/ckzvault/ckzvault/internal/browser"
	"github.com/ckzvault/ckzvault/pkg/ckzcli"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// host runs the process as a native messaging host: the browser launches it
// and speaks length-prefixed JSON over stdio. Requests carry the cookie dump
// inline, so backups work even without a running daemon.
func host(ctx *cli.Context) error {
	client, _, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "host", "client", err)
		return nil
	}
	defer client.Close()

	return browser.NewHost(hostClient{client}).Run()
}

// hostClient adapts the vault client surface to the native host's dispatch
// interface.
type hostClient struct {
	vc vaultClient
}

func (h hostClient) Backup(cookies []ckzlib.CookieRecord, opts *browser.BackupOptions) (*ckzlib.BackupResult, error) {
	var o ckzcli.BackupOpts
	if opts != nil {
		o = ckzcli.BackupOpts{
			Password: opts.Password,
			Enhanced: opts.Enhanced,
			Profile:  opts.Profile,
			Domains:  splitDomains(opts.Domains),
		}
	}
	return h.vc.Backup(cookies, &o)
}

func (h hostClient) Restore(content string, opts *browser.RestoreOptions) (*ckzlib.RestoreReport, error) {
	var o ckzcli.RestoreOpts
	if opts != nil {
		o = ckzcli.RestoreOpts{
			Password:       opts.Password,
			StrictChecksum: opts.StrictChecksum,
		}
	}
	return h.vc.Restore(content, &o)
}

func (h hostClient) History(limit int) ([]ckzlib.HistoryEntry, error) {
	return h.vc.History(limit)
}

func (h hostClient) FlushHistory() (bool, error) {
	return h.vc.FlushHistory()
}

func (h hostClient) Version() (string, error) {
	return h.vc.Version()
}

func (h hostClient) Close() error {
	return h.vc.Close()
}

var _ browser.Client = hostClient{}
