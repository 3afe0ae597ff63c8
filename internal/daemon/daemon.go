// Package daemon assembles the vault daemon: the backup and restore
// pipelines, the history ledger, the automatic backup scheduler and the
// transport layer, with lifecycle management around them.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ckzvault/ckzvault/internal/scheduler"
	"github.com/ckzvault/ckzvault/internal/server"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/credstore"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

// Lifecycle sentinels.
var (
	// ErrAlreadyRunning is returned when Run is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")
)

// autoJobName keys the automatic backup trigger in the scheduler.
const autoJobName = "auto-backup"

// Config holds daemon configuration.
type Config struct {
	Version   string
	Commit    string
	BuildType string

	// WebPort is the loopback port for the extension bridge and the HTTP
	// RPC endpoint.
	WebPort int

	// RPCSecret guards the HTTP RPC endpoint; empty disables it.
	RPCSecret string
}

// Daemon owns the long-running vault state. It implements server.Service,
// which the RPC surface exposes on every transport.
type Daemon struct {
	cfg    *Config
	log    logger.Logger
	notify ckzlib.Notifier

	history  *ckzlib.History
	creds    *credstore.Store
	bridge   *server.Bridge
	producer *ckzlib.Producer
	srv      *server.Server
	sched    *scheduler.Scheduler
	now      func() time.Time

	mu       sync.Mutex
	settings *ckzlib.Settings
	running  bool
	cancel   context.CancelFunc
}

// New assembles a daemon. log may be nil; notify may be nil and defaults to
// no notifications.
func New(cfg *Config, log logger.Logger, notify ckzlib.Notifier) (*Daemon, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if notify == nil {
		notify = ckzlib.NopNotifier{}
	}

	history, err := ckzlib.OpenHistory(ckzlib.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history ledger: %w", err)
	}
	settings, err := ckzlib.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		log:      log,
		notify:   notify,
		history:  history,
		creds:    credstore.New(ckzlib.ConfigDir),
		settings: settings,
		now:      time.Now,
	}

	rpcCfg := &server.RPCConfig{
		Secret:    cfg.RPCSecret,
		Version:   cfg.Version,
		Commit:    cfg.Commit,
		BuildType: cfg.BuildType,
	}
	rs := server.NewRPCServer(rpcCfg, d)
	d.bridge = server.NewBridge(rs.Methods(), log)
	// One producer for the daemon's lifetime: the automatic-trigger
	// in-flight guard lives on the instance, so a missed-run catch-up and
	// a scheduled fire cannot overlap.
	d.producer = ckzlib.NewProducer(d.bridge, history, log, notify)
	ws := server.NewWebServer(log, rs, d.bridge, rpcCfg, cfg.WebPort)
	d.srv = server.NewServer(log, rs, ws)

	return d, nil
}

// Run starts the scheduler and the transports and blocks until ctx is
// cancelled or Shutdown is called.
func (d *Daemon) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.running = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	d.sched = scheduler.New(ctx, func(string) {
		d.runAutoBackup(ctx)
	})
	d.programSchedule(ctx)

	d.log.Info("daemon started (version %s)", d.cfg.Version)
	return d.srv.Start(ctx)
}

// Shutdown stops a running daemon.
func (d *Daemon) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return ErrNotRunning
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.running = false
	return nil
}

// IsRunning reports whether the daemon loop is active.
func (d *Daemon) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// programSchedule arms the automatic backup trigger from the stored cadence
// and catches up on a run missed while the daemon was down.
func (d *Daemon) programSchedule(ctx context.Context) {
	d.mu.Lock()
	cadence := d.settings.AutoBackupSchedule
	d.mu.Unlock()

	expr, err := scheduler.CronExpr(cadence)
	if err != nil {
		if !errors.Is(err, scheduler.ErrScheduleDisabled) {
			d.log.Warning("scheduler: %v", err)
		}
		return
	}

	now := d.now()
	lastAuto, _ := scheduler.LastAutomaticBackup(d.history.Entries())
	if scheduler.Missed(expr, lastAuto, now) {
		d.log.Info("scheduler: missed automatic backup, running now")
		go d.runAutoBackup(ctx)
	}

	next, err := scheduler.NextRun(expr, now)
	if err != nil {
		d.log.Warning("scheduler: %v", err)
		return
	}
	d.sched.Add(scheduler.Event{
		Name:      autoJobName,
		TriggerAt: next,
		CronExpr:  expr,
	})
	d.log.Info("scheduler: next automatic backup at %s", next.Format(time.RFC3339))
}

// runAutoBackup produces one unencrypted automatic backup into the local
// backup directory.
func (d *Daemon) runAutoBackup(ctx context.Context) {
	d.mu.Lock()
	profile := d.settings.Profile
	d.mu.Unlock()

	res, err := d.producer.Run(ctx, ckzlib.BackupRequest{
		Type:    ckzlib.BackupAutomatic,
		Profile: profile,
	}, d.fileSink())
	if err != nil {
		d.log.Warning("automatic backup: %v", err)
		return
	}
	d.log.Info("automatic backup: %d cookies to %s", res.CookieCount, res.Filename)
}

func (d *Daemon) fileSink() *ckzlib.FileSink {
	d.mu.Lock()
	dir := d.settings.BackupDir
	d.mu.Unlock()
	if dir == "" {
		dir = ckzlib.BackupDir
	}
	return ckzlib.NewFileSink(dir)
}
