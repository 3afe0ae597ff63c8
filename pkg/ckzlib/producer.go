package ckzlib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ckzvault/ckzvault/pkg/logger"
)

// CookieSource is the read side of the browser cookie-store collaborator.
type CookieSource interface {
	// Cookies returns a snapshot of all cookies currently in the store.
	Cookies(ctx context.Context) (Snapshot, error)
}

// FilterFunc decides whether a record is included in a selective backup.
type FilterFunc func(CookieRecord) (bool, error)

// BackupRequest describes one backup operation.
type BackupRequest struct {
	// Type names the trigger source and is recorded in history.
	Type BackupType
	// Password enables encryption when non-empty. Must be at least
	// MinPasswordLen characters; this is the single enforcement point.
	Password string
	// Iterations overrides the KDF iteration count; 0 means DefaultIterations.
	Iterations int
	// Profile, when set, is embedded in the artifact filename.
	Profile string
	// Filter, when set, makes the backup selective. A filter matching zero
	// records aborts with ErrEmptySelection.
	Filter FilterFunc
	// Source, when set, overrides the producer's cookie source for this run.
	// The in-flight guard stays with the producer, so a caller swapping
	// sources per run keeps a single guard.
	Source CookieSource
}

// BackupResult reports one completed backup operation. Sinks holds one
// settled outcome per emission destination; partial sink failure does not
// fail the operation.
type BackupResult struct {
	Filename    string
	CookieCount int
	Size        int64
	Encrypted   bool
	Sinks       []SinkResult
}

// Failed reports whether every sink failed.
func (r *BackupResult) Failed() bool {
	if len(r.Sinks) == 0 {
		return false
	}
	for _, s := range r.Sinks {
		if s.Err == nil {
			return false
		}
	}
	return true
}

// Producer orchestrates one backup: collect, filter, serialize, encrypt,
// envelope, emit, record. It owns the in-flight guard that keeps scheduled
// automatic backups from overlapping; manual runs are deliberately unguarded
// and may overlap an automatic one.
type Producer struct {
	store   CookieSource
	history *History
	log     logger.Logger
	notify  Notifier
	guards  *VMap[BackupType, string]
	now     func() time.Time
}

// NewProducer wires a producer. history may be nil when no ledger is kept;
// log and notify may be nil and default to no-ops.
func NewProducer(store CookieSource, history *History, log logger.Logger, notify Notifier) *Producer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Producer{
		store:   store,
		history: history,
		log:     log,
		notify:  notify,
		guards:  NewVMap[BackupType, string](),
		now:     time.Now,
	}
}

// Run executes one backup operation against the given sinks. Pre-emission
// failures (collection, empty selection, password precondition) abort the
// whole operation with nothing emitted and nothing recorded. Emission
// failures are isolated per sink and reported in the result.
func (p *Producer) Run(ctx context.Context, req BackupRequest, sinks ...Sink) (*BackupResult, error) {
	if req.Type == "" {
		req.Type = BackupManual
	}

	// Only the automatic trigger is guarded against overlap.
	if req.Type == BackupAutomatic {
		token := NewEntryID()
		if !p.guards.SetIfAbsent(BackupAutomatic, token) {
			return nil, ErrBackupInFlight
		}
		defer p.guards.Delete(BackupAutomatic)
	}

	encrypted := req.Password != ""
	if encrypted && len(req.Password) < MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	// Collecting
	store := p.store
	if req.Source != nil {
		store = req.Source
	}
	snapshot, err := store.Cookies(ctx)
	if err != nil {
		return nil, &CollectionError{Cause: err}
	}

	// Filtering
	if req.Filter != nil {
		filtered := make(Snapshot, 0, len(snapshot))
		for _, rec := range snapshot {
			keep, err := req.Filter(rec)
			if err != nil {
				return nil, fmt.Errorf("filter cookie %s/%s: %w", rec.Domain, rec.Name, err)
			}
			if keep {
				filtered = append(filtered, rec)
			}
		}
		if len(filtered) == 0 {
			return nil, ErrEmptySelection
		}
		snapshot = filtered
	}

	// Serializing
	plaintext, err := snapshot.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot: %w", err)
	}

	// Encrypting and Enveloping
	var artifact []byte
	var filename string
	at := p.now()
	if encrypted {
		ciphertext, err := Encrypt(req.Password, plaintext, req.Iterations)
		if err != nil {
			return nil, fmt.Errorf("encrypt snapshot: %w", err)
		}
		artifact, err = Wrap(ciphertext).Encode()
		if err != nil {
			return nil, fmt.Errorf("encode envelope: %w", err)
		}
		filename = BackupFilename(req.Profile, at)
	} else {
		artifact = []byte(plaintext)
		if req.Type == BackupAutomatic {
			filename = AutoBackupFilename(req.Profile, at)
		} else {
			filename = PlainBackupFilename(req.Profile, at)
		}
	}

	result := &BackupResult{
		Filename:    filename,
		CookieCount: len(snapshot),
		Size:        int64(len(artifact)),
		Encrypted:   encrypted,
	}

	// Emitting: all sinks run concurrently; outcomes settle independently.
	result.Sinks = p.emit(ctx, sinks, filename, artifact)

	// Recording: one history entry per successful sink.
	for _, sr := range result.Sinks {
		if sr.Err != nil {
			p.log.Warning("backup: %v", &EmissionError{Sink: sr.Sink, Cause: sr.Err})
			p.notify.OnWarning(fmt.Sprintf("backup could not be delivered to %s", sr.Sink))
			continue
		}
		if p.history != nil {
			entry := HistoryEntry{
				ID:          NewEntryID(),
				Date:        at,
				Type:        req.Type,
				CookieCount: result.CookieCount,
				Size:        result.Size,
				Filename:    filename,
				Encrypted:   encrypted,
			}
			if err := p.history.Append(entry); err != nil {
				p.log.Warning("backup: record history for %s: %v", sr.Sink, err)
			}
		}
	}

	if !result.Failed() {
		p.notify.OnSuccess(fmt.Sprintf("backed up %d cookies to %s", result.CookieCount, filename))
	}
	return result, nil
}

// emit fans the artifact out to every sink and waits for all of them.
func (p *Producer) emit(ctx context.Context, sinks []Sink, filename string, data []byte) []SinkResult {
	results := make([]SinkResult, len(sinks))

	var wg sync.WaitGroup
	for i, sink := range sinks {
		wg.Add(1)
		go func(i int, sink Sink) {
			defer wg.Done()
			results[i] = SinkResult{Sink: sink.Name(), Err: sink.Emit(ctx, filename, data)}
		}(i, sink)
	}
	wg.Wait()

	return results
}
