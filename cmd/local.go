package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ckzvault/ckzvault/internal/browser"
	"github.com/ckzvault/ckzvault/internal/filter"
	"github.com/ckzvault/ckzvault/internal/push"
	"github.com/ckzvault/ckzvault/internal/scheduler"
	"github.com/ckzvault/ckzvault/pkg/ckzcli"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/credstore"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

// errNoCookieSource is returned when a daemonless backup has no dump to
// work from.
var errNoCookieSource = errors.New(
	"no daemon running: pass --from <file> or start one with `ckzvault daemon`")

// localVault executes operations in-process against the local config
// directory. Restore into a live browser is impossible without the daemon's
// extension bridge, so only dry runs are served.
type localVault struct {
	log      logger.Logger
	history  *ckzlib.History
	settings *ckzlib.Settings
	creds    *credstore.Store

	// onProgress, when non-nil, observes restore replay positions.
	onProgress func(current, total int)
}

func newLocalVault() (*localVault, error) {
	history, err := ckzlib.OpenHistory(ckzlib.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history ledger: %w", err)
	}
	settings, err := ckzlib.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &localVault{
		log:      logger.NewNopLogger(),
		history:  history,
		settings: settings,
		creds:    credstore.New(ckzlib.ConfigDir),
	}, nil
}

func (v *localVault) Backup(cookies []ckzlib.CookieRecord, opts *ckzcli.BackupOpts) (*ckzlib.BackupResult, error) {
	if opts == nil {
		opts = &ckzcli.BackupOpts{}
	}
	if len(cookies) == 0 {
		return nil, errNoCookieSource
	}

	f, err := filter.Build(opts.Domains, opts.Script)
	if err != nil {
		return nil, err
	}

	req := ckzlib.BackupRequest{
		Type:     ckzlib.BackupManual,
		Password: opts.Password,
		Profile:  opts.Profile,
		Filter:   f,
	}
	if f != nil {
		req.Type = ckzlib.BackupSelective
	}
	if opts.Enhanced {
		req.Iterations = ckzlib.EnhancedIterations
	}
	if req.Profile == "" {
		req.Profile = v.settings.Profile
	}

	dir := v.settings.BackupDir
	if dir == "" {
		dir = ckzlib.BackupDir
	}
	sinks := []ckzlib.Sink{ckzlib.NewFileSink(dir)}
	if opts.Push {
		creds, err := v.creds.Load()
		if err != nil {
			return nil, fmt.Errorf("push requested but no credentials stored: %w", err)
		}
		client, err := push.NewClient(creds, v.log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, push.NewSink(client, ""))
	}

	producer := ckzlib.NewProducer(browser.StaticSource(cookies), v.history, v.log, nil)
	return producer.Run(context.Background(), req, sinks...)
}

func (v *localVault) Restore(content string, opts *ckzcli.RestoreOpts) (*ckzlib.RestoreReport, error) {
	if opts == nil {
		opts = &ckzcli.RestoreOpts{}
	}
	if !opts.DryRun {
		return nil, errors.New(
			"no daemon running: restoring into the browser needs the daemon and " +
				"a connected extension (use --dry-run to validate the archive)")
	}

	// Dry runs validate only, so they never touch the ledger.
	consumer := ckzlib.NewConsumer(browser.NewMemStore(), nil, v.log, nil)
	return consumer.Run(context.Background(), content, ckzlib.RestoreRequest{
		Password:       opts.Password,
		StrictChecksum: opts.StrictChecksum,
		Progress:       v.onProgress,
	})
}

func (v *localVault) History(limit int) ([]ckzlib.HistoryEntry, error) {
	entries := v.history.Entries()
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (v *localVault) FlushHistory() (bool, error) {
	if err := v.history.Flush(); err != nil {
		return false, err
	}
	return true, nil
}

func (v *localVault) Schedule() (*ckzcli.ScheduleInfo, error) {
	return &ckzcli.ScheduleInfo{Cadence: v.settings.AutoBackupSchedule}, nil
}

// SetSchedule persists the cadence. A running daemon picks it up on its next
// start; without one the token is simply stored.
func (v *localVault) SetSchedule(cadence string) (*ckzcli.ScheduleInfo, error) {
	expr, err := scheduler.CronExpr(cadence)
	disabled := errors.Is(err, scheduler.ErrScheduleDisabled)
	if err != nil && !disabled {
		return nil, err
	}

	v.settings.AutoBackupSchedule = cadence
	if err := v.settings.Save(); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	info := &ckzcli.ScheduleInfo{Cadence: cadence}
	if !disabled {
		next, err := scheduler.NextRun(expr, time.Now())
		if err != nil {
			return nil, err
		}
		info.NextRun = next
	}
	return info, nil
}

func (v *localVault) Version() (string, error) {
	return currentBuildArgs.Version, nil
}

func (v *localVault) Close() error { return nil }

var _ vaultClient = (*localVault)(nil)
