package ckzcli

import (
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// Backup runs one backup on the daemon. A non-empty cookies slice is used
// instead of the connected extension's store.
func (c *Client) Backup(cookies []ckzlib.CookieRecord, opts *BackupOpts) (*ckzlib.BackupResult, error) {
	if opts == nil {
		opts = &BackupOpts{}
	}
	res, err := call[backupResponse](c, "backup.run", &backupRequest{
		Password: opts.Password,
		Enhanced: opts.Enhanced,
		Profile:  opts.Profile,
		Domains:  opts.Domains,
		Script:   opts.Script,
		Push:     opts.Push,
		Cookies:  cookies,
	})
	if err != nil {
		return nil, err
	}
	return res.toResult(), nil
}

// Restore replays backup content through the daemon into the browser's
// cookie store.
func (c *Client) Restore(content string, opts *RestoreOpts) (*ckzlib.RestoreReport, error) {
	if opts == nil {
		opts = &RestoreOpts{}
	}
	res, err := call[restoreResponse](c, "restore.run", &restoreRequest{
		Content:        content,
		Password:       opts.Password,
		StrictChecksum: opts.StrictChecksum,
		DryRun:         opts.DryRun,
	})
	if err != nil {
		return nil, err
	}
	return res.toReport(), nil
}

// History returns ledger entries, most recent first, capped at limit when
// limit is positive.
func (c *Client) History(limit int) ([]ckzlib.HistoryEntry, error) {
	res, err := call[historyResponse](c, "history.list", &historyRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	return res.toEntries()
}

// FlushHistory discards the daemon's ledger.
func (c *Client) FlushHistory() (bool, error) {
	res, err := call[flushResponse](c, "history.flush", nil)
	if err != nil {
		return false, err
	}
	return res.Flushed, nil
}

// Schedule returns the automatic backup cadence.
func (c *Client) Schedule() (*ScheduleInfo, error) {
	res, err := call[scheduleResponse](c, "schedule.get", nil)
	if err != nil {
		return nil, err
	}
	return res.toInfo()
}

// SetSchedule stores a new cadence token and returns the resulting schedule.
func (c *Client) SetSchedule(cadence string) (*ScheduleInfo, error) {
	res, err := call[scheduleResponse](c, "schedule.set", &scheduleRequest{Cadence: cadence})
	if err != nil {
		return nil, err
	}
	return res.toInfo()
}

// Status reports whether the browser extension is attached to the daemon
// and which automatic backup cadence is armed.
func (c *Client) Status() (*DaemonStatus, error) {
	res, err := call[statusResponse](c, "backup.status", nil)
	if err != nil {
		return nil, err
	}
	return &DaemonStatus{
		ExtensionConnected: res.ExtensionConnected,
		ScheduleCadence:    res.ScheduleCadence,
	}, nil
}

// Version returns the daemon's version string.
func (c *Client) Version() (string, error) {
	res, err := call[versionResponse](c, "system.version", nil)
	if err != nil {
		return "", err
	}
	return res.Version, nil
}
