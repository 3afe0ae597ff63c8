package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// ErrScheduleDisabled is returned when the stored cadence token says
// automatic backups are off.
var ErrScheduleDisabled = errors.New("automatic backups are disabled")

// Named cadence tokens accepted in settings. Any other non-empty token is
// treated as a raw cron expression.
const (
	CadenceOff     = "off"
	CadenceHourly  = "hourly"
	CadenceDaily   = "daily"
	CadenceWeekly  = "weekly"
	CadenceMonthly = "monthly"
)

// Named cadences run off-peak at 03:00; hourly runs on the hour.
var cadenceExprs = map[string]string{
	CadenceHourly:  "0 * * * *",
	CadenceDaily:   "0 3 * * *",
	CadenceWeekly:  "0 3 * * 1",
	CadenceMonthly: "0 3 1 * *",
}

// CronExpr resolves a cadence token to a cron expression. An empty or "off"
// token yields ErrScheduleDisabled; unrecognized tokens are validated as raw
// cron expressions.
func CronExpr(token string) (string, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" || token == CadenceOff {
		return "", ErrScheduleDisabled
	}
	if expr, ok := cadenceExprs[token]; ok {
		return expr, nil
	}
	if !gronx.New().IsValid(token) {
		return "", fmt.Errorf("invalid backup cadence %q", token)
	}
	return token, nil
}

// NextRun returns the first time expr fires strictly after the given time.
func NextRun(expr string, after time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, after, false)
}

// Missed reports whether expr had an occurrence between lastRun and now,
// meaning a scheduled backup was skipped while the daemon was down. A zero
// lastRun means no automatic backup ever ran, which counts as missed.
func Missed(expr string, lastRun, now time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	next, err := gronx.NextTickAfter(expr, lastRun, false)
	if err != nil {
		return false
	}
	return next.Before(now)
}

// LastAutomaticBackup scans ledger entries (most recent first) for the
// newest automatic backup. The second return is false when none exists.
func LastAutomaticBackup(entries []ckzlib.HistoryEntry) (time.Time, bool) {
	for _, e := range entries {
		if e.Type == ckzlib.BackupAutomatic {
			return e.Date, true
		}
	}
	return time.Time{}, false
}
