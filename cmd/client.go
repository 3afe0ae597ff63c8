package cmd

import (
	"github.com/ckzvault/ckzvault/pkg/ckzcli"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// vaultClient is the operation surface commands run against. It is satisfied
// by the daemon client and by the in-process fallback used when no daemon is
// listening.
type vaultClient interface {
	Backup(cookies []ckzlib.CookieRecord, opts *ckzcli.BackupOpts) (*ckzlib.BackupResult, error)
	Restore(content string, opts *ckzcli.RestoreOpts) (*ckzlib.RestoreReport, error)
	History(limit int) ([]ckzlib.HistoryEntry, error)
	FlushHistory() (bool, error)
	Schedule() (*ckzcli.ScheduleInfo, error)
	SetSchedule(cadence string) (*ckzcli.ScheduleInfo, error)
	Version() (string, error)
	Close() error
}

// newClientFunc points at the daemon dialer; tests swap it out.
var newClientFunc = func() (vaultClient, error) {
	c, err := ckzcli.NewClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// getClient connects to the daemon, falling back to in-process execution
// when the socket is not being served. The returned bool reports whether a
// daemon connection was made.
func getClient() (vaultClient, bool, error) {
	if c, err := newClientFunc(); err == nil {
		return c, true, nil
	}
	v, err := newLocalVault()
	if err != nil {
		return nil, false, err
	}
	return v, false, nil
}
