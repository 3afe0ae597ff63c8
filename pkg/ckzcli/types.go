package ckzcli

import (
	"errors"
	"fmt"
	"time"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// BackupOpts carries the optional settings for a backup run.
type BackupOpts struct {
	Password string
	Enhanced bool
	Profile  string
	Domains  []string
	Script   string
	Push     bool
}

// RestoreOpts carries the optional settings for a restore run.
type RestoreOpts struct {
	Password       string
	StrictChecksum bool
	DryRun         bool
}

// ScheduleInfo reports the automatic backup cadence and, when the schedule
// is armed, the next run time.
type ScheduleInfo struct {
	Cadence string
	NextRun time.Time
}

// DaemonStatus reports whether an extension is attached to the daemon and
// which automatic backup cadence is armed.
type DaemonStatus struct {
	ExtensionConnected bool
	ScheduleCadence    string
}

// Wire mirrors of the daemon's request and response shapes.

type backupRequest struct {
	Password string                `json:"password,omitempty"`
	Enhanced bool                  `json:"enhanced,omitempty"`
	Profile  string                `json:"profile,omitempty"`
	Domains  []string              `json:"domains,omitempty"`
	Script   string                `json:"script,omitempty"`
	Push     bool                  `json:"push,omitempty"`
	Cookies  []ckzlib.CookieRecord `json:"cookies,omitempty"`
}

type restoreRequest struct {
	Content        string `json:"content"`
	Password       string `json:"password,omitempty"`
	StrictChecksum bool   `json:"strictChecksum,omitempty"`
	DryRun         bool   `json:"dryRun,omitempty"`
}

type historyRequest struct {
	Limit int `json:"limit,omitempty"`
}

type scheduleRequest struct {
	Cadence string `json:"cadence"`
}

type sinkStatus struct {
	Sink  string `json:"sink"`
	Error string `json:"error,omitempty"`
}

type backupResponse struct {
	Filename    string       `json:"filename"`
	CookieCount int          `json:"cookieCount"`
	Size        int64        `json:"size"`
	Encrypted   bool         `json:"encrypted"`
	Sinks       []sinkStatus `json:"sinks,omitempty"`
}

func (r *backupResponse) toResult() *ckzlib.BackupResult {
	res := &ckzlib.BackupResult{
		Filename:    r.Filename,
		CookieCount: r.CookieCount,
		Size:        r.Size,
		Encrypted:   r.Encrypted,
	}
	for _, s := range r.Sinks {
		sr := ckzlib.SinkResult{Sink: s.Sink}
		if s.Error != "" {
			sr.Err = errors.New(s.Error)
		}
		res.Sinks = append(res.Sinks, sr)
	}
	return res
}

type recordFailure struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Message string `json:"message"`
}

type restoreResponse struct {
	Total          int             `json:"total"`
	Restored       int             `json:"restored"`
	SkippedExpired int             `json:"skippedExpired"`
	Failed         int             `json:"failed"`
	Failures       []recordFailure `json:"failures,omitempty"`
}

func (r *restoreResponse) toReport() *ckzlib.RestoreReport {
	rep := &ckzlib.RestoreReport{
		Total:          r.Total,
		Restored:       r.Restored,
		SkippedExpired: r.SkippedExpired,
		Failed:         r.Failed,
	}
	for _, f := range r.Failures {
		rep.Failures = append(rep.Failures, ckzlib.RecordFailure{
			Name:    f.Name,
			Domain:  f.Domain,
			Message: f.Message,
		})
	}
	return rep
}

type historyItem struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	CookieCount int    `json:"cookieCount"`
	Size        int64  `json:"size"`
	Filename    string `json:"filename"`
	Encrypted   bool   `json:"encrypted"`
}

type historyResponse struct {
	Entries []historyItem `json:"entries"`
}

func (r *historyResponse) toEntries() ([]ckzlib.HistoryEntry, error) {
	entries := make([]ckzlib.HistoryEntry, 0, len(r.Entries))
	for _, it := range r.Entries {
		date, err := time.Parse(time.RFC3339, it.Date)
		if err != nil {
			return nil, fmt.Errorf("history entry %s: bad date %q: %w", it.ID, it.Date, err)
		}
		entries = append(entries, ckzlib.HistoryEntry{
			ID:          it.ID,
			Date:        date,
			Type:        ckzlib.BackupType(it.Type),
			CookieCount: it.CookieCount,
			Size:        it.Size,
			Filename:    it.Filename,
			Encrypted:   it.Encrypted,
		})
	}
	return entries, nil
}

type scheduleResponse struct {
	Cadence string `json:"cadence"`
	NextRun string `json:"nextRun,omitempty"`
}

func (r *scheduleResponse) toInfo() (*ScheduleInfo, error) {
	info := &ScheduleInfo{Cadence: r.Cadence}
	if r.NextRun != "" {
		next, err := time.Parse(time.RFC3339, r.NextRun)
		if err != nil {
			return nil, fmt.Errorf("bad next run time %q: %w", r.NextRun, err)
		}
		info.NextRun = next
	}
	return info, nil
}

type statusResponse struct {
	ExtensionConnected bool   `json:"extensionConnected"`
	ScheduleCadence    string `json:"scheduleCadence,omitempty"`
}

type flushResponse struct {
	Flushed bool `json:"flushed"`
}

type versionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}
