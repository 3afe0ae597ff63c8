package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ckzvault/ckzvault/internal/server"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	if err := ckzlib.SetConfigDir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Setenv(server.SocketPathEnv, filepath.Join(t.TempDir(), "daemon.sock"))

	d, err := New(&Config{Version: "test"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func sampleDump() []ckzlib.CookieRecord {
	return []ckzlib.CookieRecord{
		{Domain: ".example.com", Name: "sid", Value: "1", Path: "/"},
		{Domain: ".example.com", Name: "pref", Value: "dark", Path: "/"},
		{Domain: ".example.org", Name: "tok", Value: "2", Path: "/"},
	}
}

func TestBackupFromAttachedDump(t *testing.T) {
	d := newTestDaemon(t)

	res, err := d.Backup(context.Background(), &server.BackupParams{Cookies: sampleDump()})
	if err != nil {
		t.Fatal(err)
	}
	if res.CookieCount != 3 || res.Encrypted {
		t.Errorf("result = %+v, want 3 plain cookies", res)
	}

	data, err := os.ReadFile(filepath.Join(ckzlib.BackupDir, res.Filename))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	snap, err := ckzlib.DeserializeSnapshot(string(data))
	if err != nil {
		t.Fatalf("artifact not a snapshot: %v", err)
	}
	if len(snap) != 3 {
		t.Errorf("snapshot len = %d, want 3", len(snap))
	}

	entries, _ := d.History(context.Background(), 0)
	if len(entries) != 1 || entries[0].Type != ckzlib.BackupManual {
		t.Errorf("history = %+v, want one manual entry", entries)
	}
}

// slowSource holds a collection open until released, standing in for a
// long-running extension dump.
type slowSource struct {
	started chan struct{}
	release chan struct{}
	snap    ckzlib.Snapshot
}

func (s *slowSource) Cookies(context.Context) (ckzlib.Snapshot, error) {
	close(s.started)
	<-s.release
	return s.snap, nil
}

func TestAutomaticRunsShareInFlightGuard(t *testing.T) {
	d := newTestDaemon(t)

	src := &slowSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
		snap:    sampleDump(),
	}
	done := make(chan error, 1)
	go func() {
		_, err := d.producer.Run(context.Background(), ckzlib.BackupRequest{
			Type:   ckzlib.BackupAutomatic,
			Source: src,
		}, d.fileSink())
		done <- err
	}()
	<-src.started

	// A missed-run catch-up firing while a scheduled run is collecting
	// must hit the guard, not start a second collection.
	_, err := d.producer.Run(context.Background(), ckzlib.BackupRequest{
		Type: ckzlib.BackupAutomatic,
	}, d.fileSink())
	if !errors.Is(err, ckzlib.ErrBackupInFlight) {
		t.Errorf("overlapping automatic run: err = %v, want ErrBackupInFlight", err)
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first automatic run: %v", err)
	}

	entries, _ := d.History(context.Background(), 0)
	if len(entries) != 1 {
		t.Errorf("history has %d entries, want 1", len(entries))
	}
}

func TestBackupWithoutExtensionFails(t *testing.T) {
	d := newTestDaemon(t)

	_, err := d.Backup(context.Background(), &server.BackupParams{})
	if err == nil {
		t.Fatal("expected an error with no extension and no dump")
	}
	if !errors.Is(err, server.ErrExtensionNotConnected) {
		t.Errorf("err = %v, want ErrExtensionNotConnected", err)
	}
}

func TestBackupDomainsFilterSelective(t *testing.T) {
	d := newTestDaemon(t)

	res, err := d.Backup(context.Background(), &server.BackupParams{
		Cookies: sampleDump(),
		Domains: []string{"example.com"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.CookieCount != 2 {
		t.Errorf("count = %d, want 2", res.CookieCount)
	}

	entries, _ := d.History(context.Background(), 0)
	if len(entries) != 1 || entries[0].Type != ckzlib.BackupSelective {
		t.Errorf("history = %+v, want one selective entry", entries)
	}
}

func TestBackupEmptySelection(t *testing.T) {
	d := newTestDaemon(t)

	_, err := d.Backup(context.Background(), &server.BackupParams{
		Cookies: sampleDump(),
		Domains: []string{"nomatch.net"},
	})
	if !errors.Is(err, ckzlib.ErrEmptySelection) {
		t.Errorf("err = %v, want ErrEmptySelection", err)
	}
}

func TestBackupScriptFilter(t *testing.T) {
	d := newTestDaemon(t)

	res, err := d.Backup(context.Background(), &server.BackupParams{
		Cookies: sampleDump(),
		Script:  `(function(c) { return c.name === "sid"; })`,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.CookieCount != 1 {
		t.Errorf("count = %d, want 1", res.CookieCount)
	}
}

func TestRestoreDryRun(t *testing.T) {
	d := newTestDaemon(t)

	snap := ckzlib.Snapshot(sampleDump())
	content, err := snap.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	report, err := d.Restore(context.Background(), &server.RestoreParams{
		Content: content,
		DryRun:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Restored != 3 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}

	entries, _ := d.History(context.Background(), 0)
	if len(entries) != 0 {
		t.Errorf("dry run recorded %d ledger entries, want 0", len(entries))
	}
}

func TestRestoreWithoutExtensionFails(t *testing.T) {
	d := newTestDaemon(t)

	snap := ckzlib.Snapshot(sampleDump())
	content, _ := snap.Serialize()

	report, err := d.Restore(context.Background(), &server.RestoreParams{Content: content})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 3 {
		t.Errorf("failed = %d, want every record refused", report.Failed)
	}

	// The completed replay still lands in the ledger.
	entries, _ := d.History(context.Background(), 0)
	if len(entries) != 1 || entries[0].Type != ckzlib.RestoreReplay {
		t.Errorf("history = %+v, want one restore entry", entries)
	}
}

func TestHistoryLimit(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := d.Backup(ctx, &server.BackupParams{Cookies: sampleDump()}); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := d.History(ctx, 2)
	if len(entries) != 2 {
		t.Errorf("len = %d, want 2", len(entries))
	}

	if err := d.FlushHistory(ctx); err != nil {
		t.Fatal(err)
	}
	entries, _ = d.History(ctx, 0)
	if len(entries) != 0 {
		t.Errorf("len after flush = %d, want 0", len(entries))
	}
}

func TestScheduleSetAndGet(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	next, err := d.SetSchedule(ctx, "daily")
	if err != nil {
		t.Fatal(err)
	}
	if next == "" {
		t.Error("expected a next run time for daily cadence")
	}
	if _, err := time.Parse(time.RFC3339, next); err != nil {
		t.Errorf("next run %q is not RFC 3339: %v", next, err)
	}

	got, err := d.Schedule(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "daily" {
		t.Errorf("cadence = %q, want daily", got)
	}

	// Persisted: a fresh settings load sees the token.
	settings, err := ckzlib.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.AutoBackupSchedule != "daily" {
		t.Errorf("persisted cadence = %q", settings.AutoBackupSchedule)
	}
}

func TestScheduleOff(t *testing.T) {
	d := newTestDaemon(t)

	next, err := d.SetSchedule(context.Background(), "off")
	if err != nil {
		t.Fatal(err)
	}
	if next != "" {
		t.Errorf("next = %q, want empty for disabled schedule", next)
	}
}

func TestStatusWithoutExtension(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if _, err := d.SetSchedule(ctx, "weekly"); err != nil {
		t.Fatal(err)
	}

	connected, cadence, err := d.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if connected {
		t.Error("no extension attached, status should report disconnected")
	}
	if cadence != "weekly" {
		t.Errorf("cadence = %q, want weekly", cadence)
	}
}

func TestScheduleInvalidToken(t *testing.T) {
	d := newTestDaemon(t)
	if _, err := d.SetSchedule(context.Background(), "sometimes"); err == nil {
		t.Fatal("expected an error for an invalid cadence")
	}
}

func TestLifecycle(t *testing.T) {
	d := newTestDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !d.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("daemon never started")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := d.Shutdown(); err != nil {
		t.Errorf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}

	if err := d.Shutdown(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Shutdown err = %v, want ErrNotRunning", err)
	}
}
