package server

import (
	"context"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// BackupParams is the input for backup.run. When Cookies is non-empty the
// caller supplies its own dump (the native host path); otherwise the daemon
// collects from the connected extension.
type BackupParams struct {
	Password string                `json:"password,omitempty"`
	Enhanced bool                  `json:"enhanced,omitempty"`
	Profile  string                `json:"profile,omitempty"`
	Domains  []string              `json:"domains,omitempty"`
	Script   string                `json:"script,omitempty"`
	Push     bool                  `json:"push,omitempty"`
	Cookies  []ckzlib.CookieRecord `json:"cookies,omitempty"`
}

// RestoreParams is the input for restore.run.
type RestoreParams struct {
	Content        string `json:"content"`
	Password       string `json:"password,omitempty"`
	StrictChecksum bool   `json:"strictChecksum,omitempty"`
	DryRun         bool   `json:"dryRun,omitempty"`
}

// HistoryParams is the input for history.list.
type HistoryParams struct {
	Limit int `json:"limit,omitempty"`
}

// ScheduleParams is the input for schedule.set.
type ScheduleParams struct {
	Cadence string `json:"cadence"`
}

// SinkStatus is one settled emission outcome on the wire.
type SinkStatus struct {
	Sink  string `json:"sink"`
	Error string `json:"error,omitempty"`
}

// BackupResult is the response for backup.run.
type BackupResult struct {
	Filename    string       `json:"filename"`
	CookieCount int          `json:"cookieCount"`
	Size        int64        `json:"size"`
	Encrypted   bool         `json:"encrypted"`
	Sinks       []SinkStatus `json:"sinks,omitempty"`
}

// RecordFailure is one refused cookie on the wire.
type RecordFailure struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Message string `json:"message"`
}

// RestoreResult is the response for restore.run.
type RestoreResult struct {
	Total          int             `json:"total"`
	Restored       int             `json:"restored"`
	SkippedExpired int             `json:"skippedExpired"`
	Failed         int             `json:"failed"`
	Failures       []RecordFailure `json:"failures,omitempty"`
}

// HistoryItem is one ledger entry on the wire.
type HistoryItem struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	CookieCount int    `json:"cookieCount"`
	Size        int64  `json:"size"`
	Filename    string `json:"filename"`
	Encrypted   bool   `json:"encrypted"`
}

// HistoryResult is the response for history.list.
type HistoryResult struct {
	Entries []HistoryItem `json:"entries"`
}

// ScheduleResult is the response for schedule.get and schedule.set.
type ScheduleResult struct {
	Cadence string `json:"cadence"`
	NextRun string `json:"nextRun,omitempty"`
}

// StatusResult is the response for backup.status.
type StatusResult struct {
	ExtensionConnected bool   `json:"extensionConnected"`
	ScheduleCadence    string `json:"scheduleCadence,omitempty"`
}

// FlushResult is the response for history.flush.
type FlushResult struct {
	Flushed bool `json:"flushed"`
}

// VersionResult is the response for system.version.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// Service is the daemon-side implementation the RPC surface delegates to.
type Service interface {
	// Backup runs one backup operation and reports the settled outcome.
	Backup(ctx context.Context, p *BackupParams) (*ckzlib.BackupResult, error)

	// Restore replays backup content into the cookie store. DryRun targets
	// an in-memory store instead of the browser.
	Restore(ctx context.Context, p *RestoreParams) (*ckzlib.RestoreReport, error)

	// History returns ledger entries, most recent first, capped at limit
	// when limit is positive.
	History(ctx context.Context, limit int) ([]ckzlib.HistoryEntry, error)

	// FlushHistory discards the ledger.
	FlushHistory(ctx context.Context) error

	// Schedule returns the current cadence token.
	Schedule(ctx context.Context) (string, error)

	// SetSchedule stores a new cadence token and reprograms the trigger.
	// It returns the next run time, zero when the schedule is disabled.
	SetSchedule(ctx context.Context, cadence string) (string, error)

	// Status reports whether an extension is attached and the armed cadence.
	Status(ctx context.Context) (connected bool, cadence string, err error)
}
