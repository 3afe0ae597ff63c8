package ckzlib

import (
	"context"
	"fmt"
	"time"

	"github.com/ckzvault/ckzvault/pkg/logger"
)

// SetCookieRequest is the one-record payload handed to the cookie store
// during replay. URL is derived from the record before restore-time hints
// are stripped, so a host-only cookie still targets the right host.
type SetCookieRequest struct {
	URL    string       `json:"url"`
	Cookie CookieRecord `json:"cookie"`
}

// CookieWriter is the write side of the browser cookie-store collaborator.
// SetCookie applies exactly one cookie; failures are reported per call.
type CookieWriter interface {
	SetCookie(ctx context.Context, req SetCookieRequest) error
}

// RestoreRequest describes one restore operation.
type RestoreRequest struct {
	// Password decrypts the backup on the encrypted path. It must be
	// non-empty when the input is an envelope or a bare ciphertext.
	Password string
	// StrictChecksum turns an envelope checksum mismatch from a logged
	// warning into a hard failure.
	StrictChecksum bool
	// Progress, when non-nil, is invoked after every replayed record with
	// the running position. Replay is strictly sequential, so current is
	// monotonic.
	Progress func(current, total int)
}

// RecordFailure captures one cookie the browser refused during replay.
type RecordFailure struct {
	Name    string
	Domain  string
	Message string
}

// RestoreReport is the aggregate tally of one restore operation. It is
// always produced once replay begins; per-record failures never abort the
// batch.
type RestoreReport struct {
	Total          int
	Restored       int
	SkippedExpired int
	Failed         int
	Failures       []RecordFailure
}

// Summary renders the user-facing restored/total line.
func (r *RestoreReport) Summary() string {
	s := fmt.Sprintf("restored %d of %d cookies", r.Restored, r.Total)
	if r.SkippedExpired > 0 {
		s += fmt.Sprintf(", %d expired", r.SkippedExpired)
	}
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	return s
}

// Consumer orchestrates one restore: classify, verify, decrypt, deserialize,
// validate, replay, report.
type Consumer struct {
	store   CookieWriter
	history *History
	log     logger.Logger
	notify  Notifier
	now     func() time.Time
}

// NewConsumer wires a consumer. history may be nil when no ledger is kept;
// log and notify may be nil and default to no-ops.
func NewConsumer(store CookieWriter, history *History, log logger.Logger, notify Notifier) *Consumer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Consumer{
		store:   store,
		history: history,
		log:     log,
		notify:  notify,
		now:     time.Now,
	}
}

// Run restores the backup content in raw. Errors before replay abort the
// whole operation with nothing written to the cookie store. Once replay
// begins the operation always completes and returns a report.
func (c *Consumer) Run(ctx context.Context, raw string, req RestoreRequest) (*RestoreReport, error) {
	snapshot, encrypted, err := c.load(raw, req)
	if err != nil {
		return nil, err
	}

	report := c.replay(ctx, snapshot, req.Progress)
	c.record(int64(len(raw)), encrypted, report)
	c.notify.OnSuccess(report.Summary())
	return report, nil
}

// record appends one completed replay to the ledger.
func (c *Consumer) record(size int64, encrypted bool, report *RestoreReport) {
	if c.history == nil {
		return
	}
	entry := HistoryEntry{
		ID:          NewEntryID(),
		Date:        c.now(),
		Type:        RestoreReplay,
		CookieCount: report.Restored,
		Size:        size,
		Encrypted:   encrypted,
	}
	if err := c.history.Append(entry); err != nil {
		c.log.Warning("restore: record history: %v", err)
	}
}

// load runs the pre-replay pipeline: Unwrapping, Verifying, Decrypting,
// Deserializing and Validating. An unencrypted plain cookie array
// short-circuits straight past decryption. The bool reports whether the
// input was encrypted.
func (c *Consumer) load(raw string, req RestoreRequest) (Snapshot, bool, error) {
	classified := Classify(raw)

	var ciphertext string
	switch classified.Kind {
	case ContentPlainSnapshot:
		return classified.Snapshot, false, nil

	case ContentEnvelope:
		env := classified.Envelope
		if !env.Verify() {
			mismatch := &ChecksumMismatch{
				Expected: env.Checksum,
				Actual:   Checksum(env.Payload),
			}
			if req.StrictChecksum {
				return nil, true, mismatch
			}
			c.log.Warning("restore: %v, continuing", mismatch)
			c.notify.OnWarning("backup checksum mismatch, the file may be corrupted")
		}
		ciphertext = env.Payload

	case ContentLegacyCiphertext:
		// Pre-envelope backup: no checksum to verify.
		ciphertext = classified.Ciphertext

	default:
		return nil, false, &ParseError{Cause: fmt.Errorf("unrecognized backup content")}
	}

	if req.Password == "" {
		return nil, true, ErrPasswordRequired
	}
	plaintext, err := Decrypt(req.Password, ciphertext)
	if err != nil {
		return nil, true, err
	}

	snapshot, err := DeserializeSnapshot(plaintext)
	return snapshot, true, err
}

// replay re-issues one cookie-set call per record, strictly sequentially and
// in snapshot order. Sequential writes keep the progress counter
// deterministic and avoid hammering the browser with concurrent writes to
// the same domain. One bad record never aborts the batch.
func (c *Consumer) replay(ctx context.Context, snapshot Snapshot, progress func(current, total int)) *RestoreReport {
	report := &RestoreReport{Total: len(snapshot)}
	now := float64(c.now().Unix())

	for i, rec := range snapshot {
		if rec.ExpirationDate != nil && *rec.ExpirationDate <= now {
			report.SkippedExpired++
			c.advance(progress, i+1, report.Total)
			continue
		}

		if rec.Name == "" || rec.Domain == "" {
			report.Failed++
			report.Failures = append(report.Failures, RecordFailure{
				Name:    rec.Name,
				Domain:  rec.Domain,
				Message: "record is missing name or domain",
			})
			c.advance(progress, i+1, report.Total)
			continue
		}

		if err := c.store.SetCookie(ctx, prepareForReplay(rec)); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, RecordFailure{
				Name:    rec.Name,
				Domain:  rec.Domain,
				Message: err.Error(),
			})
			c.log.Warning("restore: set cookie %s/%s: %v", rec.Domain, rec.Name, err)
			c.advance(progress, i+1, report.Total)
			continue
		}

		report.Restored++
		c.advance(progress, i+1, report.Total)
	}

	return report
}

func (c *Consumer) advance(progress func(current, total int), current, total int) {
	if progress != nil {
		progress(current, total)
	}
}

// prepareForReplay computes the target URL, strips restore-time hints and
// fills defaults before the record is handed to the cookie store. A
// host-only cookie must not carry an explicit domain; a session cookie must
// not carry an expiration date.
func prepareForReplay(rec CookieRecord) SetCookieRequest {
	url := rec.URL()

	out := rec
	if out.HostOnly {
		out.Domain = ""
	}
	if out.Session {
		out.ExpirationDate = nil
	}
	out.HostOnly = false
	out.Session = false

	if out.SameSite == "" {
		out.SameSite = SameSiteNone
	}
	if out.Path == "" {
		out.Path = "/"
	}
	return SetCookieRequest{URL: url, Cookie: out}
}
