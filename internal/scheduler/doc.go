// Package scheduler fires automatic backups on a cron cadence. It runs a
// single goroutine over a min-heap of pending events sorted by trigger time,
// sleeping in capped intervals so NTP steps, DST transitions and system
// sleep cannot delay a trigger by more than the cap.
//
// The scheduler keeps no state of its own. The daemon rebuilds the heap at
// startup from the persisted cadence token and consults the history ledger
// to detect runs missed while the daemon was down.
package scheduler
