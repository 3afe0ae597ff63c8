package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/ckzvault/ckzvault/internal/browser"
	"github.com/ckzvault/ckzvault/internal/filter"
	"github.com/ckzvault/ckzvault/internal/push"
	"github.com/ckzvault/ckzvault/internal/scheduler"
	"github.com/ckzvault/ckzvault/internal/server"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// Backup runs one backup. A cookie dump attached to the request (the native
// host path) takes precedence over the extension bridge.
func (d *Daemon) Backup(ctx context.Context, p *server.BackupParams) (*ckzlib.BackupResult, error) {
	f, err := filter.Build(p.Domains, p.Script)
	if err != nil {
		return nil, err
	}

	req := ckzlib.BackupRequest{
		Type:     ckzlib.BackupManual,
		Password: p.Password,
		Profile:  p.Profile,
	}
	if len(p.Cookies) > 0 {
		req.Source = browser.StaticSource(p.Cookies)
	}
	if f != nil {
		req.Type = ckzlib.BackupSelective
		req.Filter = f
	}
	if p.Enhanced {
		req.Iterations = ckzlib.EnhancedIterations
	}
	if req.Profile == "" {
		d.mu.Lock()
		req.Profile = d.settings.Profile
		d.mu.Unlock()
	}

	sinks := []ckzlib.Sink{ckzlib.Sink(d.fileSink())}
	if p.Push {
		pushSink, err := d.pushSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, pushSink)
	}

	return d.producer.Run(ctx, req, sinks...)
}

// Restore replays backup content into the extension's cookie store, or into
// a throwaway in-memory store for a dry run.
func (d *Daemon) Restore(ctx context.Context, p *server.RestoreParams) (*ckzlib.RestoreReport, error) {
	var store ckzlib.CookieWriter = d.bridge
	hist := d.history
	if p.DryRun {
		// Validation only: no browser writes, no ledger entry.
		store = browser.NewMemStore()
		hist = nil
	}

	consumer := ckzlib.NewConsumer(store, hist, d.log, d.notify)
	return consumer.Run(ctx, p.Content, ckzlib.RestoreRequest{
		Password:       p.Password,
		StrictChecksum: p.StrictChecksum,
	})
}

// History returns ledger entries, most recent first.
func (d *Daemon) History(_ context.Context, limit int) ([]ckzlib.HistoryEntry, error) {
	entries := d.history.Entries()
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// FlushHistory discards the ledger.
func (d *Daemon) FlushHistory(context.Context) error {
	return d.history.Flush()
}

// Schedule returns the stored cadence token.
func (d *Daemon) Schedule(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings.AutoBackupSchedule, nil
}

// Status reports whether an extension is attached and the armed cadence.
func (d *Daemon) Status(context.Context) (bool, string, error) {
	d.mu.Lock()
	cadence := d.settings.AutoBackupSchedule
	d.mu.Unlock()
	return d.bridge.Connected(), cadence, nil
}

// SetSchedule validates and persists a cadence token and reprograms the
// automatic backup trigger. It returns the next run time in RFC 3339, empty
// when the schedule is disabled.
func (d *Daemon) SetSchedule(_ context.Context, cadence string) (string, error) {
	expr, err := scheduler.CronExpr(cadence)
	disabled := err == scheduler.ErrScheduleDisabled
	if err != nil && !disabled {
		return "", err
	}

	d.mu.Lock()
	d.settings.AutoBackupSchedule = cadence
	saveErr := d.settings.Save()
	d.mu.Unlock()
	if saveErr != nil {
		return "", fmt.Errorf("save settings: %w", saveErr)
	}

	if d.sched != nil {
		d.sched.Remove(autoJobName)
	}
	if disabled {
		return "", nil
	}

	next, err := scheduler.NextRun(expr, d.now())
	if err != nil {
		return "", err
	}
	if d.sched != nil {
		d.sched.Add(scheduler.Event{
			Name:      autoJobName,
			TriggerAt: next,
			CronExpr:  expr,
		})
	}
	return next.Format(time.RFC3339), nil
}

// pushSink builds the chat push sink from stored credentials.
func (d *Daemon) pushSink() (ckzlib.Sink, error) {
	creds, err := d.creds.Load()
	if err != nil {
		return nil, fmt.Errorf("push requested but no credentials stored: %w", err)
	}
	client, err := push.NewClient(creds, d.log)
	if err != nil {
		return nil, err
	}
	return push.NewSink(client, ""), nil
}

var _ server.Service = (*Daemon)(nil)
