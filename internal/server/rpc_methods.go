package server

import (
	"context"
	"errors"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// JSON-RPC error codes for vault operations.
const (
	codePasswordRequired = jrpc2.Code(-32001)
	codeWrongPassword    = jrpc2.Code(-32002)
	codeInvalidBackup    = jrpc2.Code(-32003)
	codeEmptySelection   = jrpc2.Code(-32004)
	codeBackupInFlight   = jrpc2.Code(-32005)
	codeChecksumMismatch = jrpc2.Code(-32006)
	codeNotConnected     = jrpc2.Code(-32010)
	codeInvalidParams    = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC surface.
type RPCConfig struct {
	Secret    string // Bearer token for the HTTP endpoint; empty disables it
	Version   string
	Commit    string
	BuildType string
}

// RPCServer binds the vault service to JSON-RPC method handlers. The same
// method map serves the local socket, the HTTP bridge and the extension
// WebSocket.
type RPCServer struct {
	svc       Service
	version   string
	commit    string
	buildType string
	methods   handler.Map
}

// NewRPCServer wires the method handlers for the given service.
func NewRPCServer(cfg *RPCConfig, svc Service) *RPCServer {
	rs := &RPCServer{
		svc:       svc,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
	}
	rs.methods = handler.Map{
		"system.version": handler.New(rs.systemVersion),
		"backup.run":     handler.New(rs.backupRun),
		"backup.status":  handler.New(rs.backupStatus),
		"restore.run":    handler.New(rs.restoreRun),
		"history.list":   handler.New(rs.historyList),
		"history.flush":  handler.New(rs.historyFlush),
		"schedule.get":   handler.New(rs.scheduleGet),
		"schedule.set":   handler.New(rs.scheduleSet),
	}
	return rs
}

// Methods returns the method map shared by every transport.
func (rs *RPCServer) Methods() handler.Map {
	return rs.methods
}

func (rs *RPCServer) systemVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

func (rs *RPCServer) backupRun(ctx context.Context, p *BackupParams) (*BackupResult, error) {
	res, err := rs.svc.Backup(ctx, p)
	if err != nil {
		return nil, rpcError(err)
	}

	out := &BackupResult{
		Filename:    res.Filename,
		CookieCount: res.CookieCount,
		Size:        res.Size,
		Encrypted:   res.Encrypted,
	}
	for _, sr := range res.Sinks {
		st := SinkStatus{Sink: sr.Sink}
		if sr.Err != nil {
			st.Error = sr.Err.Error()
		}
		out.Sinks = append(out.Sinks, st)
	}
	return out, nil
}

func (rs *RPCServer) backupStatus(ctx context.Context) (*StatusResult, error) {
	connected, cadence, err := rs.svc.Status(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &StatusResult{ExtensionConnected: connected, ScheduleCadence: cadence}, nil
}

func (rs *RPCServer) restoreRun(ctx context.Context, p *RestoreParams) (*RestoreResult, error) {
	if p.Content == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: content"}
	}

	report, err := rs.svc.Restore(ctx, p)
	if err != nil {
		return nil, rpcError(err)
	}

	out := &RestoreResult{
		Total:          report.Total,
		Restored:       report.Restored,
		SkippedExpired: report.SkippedExpired,
		Failed:         report.Failed,
	}
	for _, f := range report.Failures {
		out.Failures = append(out.Failures, RecordFailure{
			Name:    f.Name,
			Domain:  f.Domain,
			Message: f.Message,
		})
	}
	return out, nil
}

func (rs *RPCServer) historyList(ctx context.Context, p *HistoryParams) (*HistoryResult, error) {
	entries, err := rs.svc.History(ctx, p.Limit)
	if err != nil {
		return nil, rpcError(err)
	}

	out := &HistoryResult{Entries: make([]HistoryItem, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, HistoryItem{
			ID:          e.ID,
			Date:        e.Date.Format(time.RFC3339),
			Type:        string(e.Type),
			CookieCount: e.CookieCount,
			Size:        e.Size,
			Filename:    e.Filename,
			Encrypted:   e.Encrypted,
		})
	}
	return out, nil
}

func (rs *RPCServer) historyFlush(ctx context.Context) (*FlushResult, error) {
	if err := rs.svc.FlushHistory(ctx); err != nil {
		return nil, rpcError(err)
	}
	return &FlushResult{Flushed: true}, nil
}

func (rs *RPCServer) scheduleGet(ctx context.Context) (*ScheduleResult, error) {
	cadence, err := rs.svc.Schedule(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &ScheduleResult{Cadence: cadence}, nil
}

func (rs *RPCServer) scheduleSet(ctx context.Context, p *ScheduleParams) (*ScheduleResult, error) {
	next, err := rs.svc.SetSchedule(ctx, p.Cadence)
	if err != nil {
		return nil, rpcError(err)
	}
	return &ScheduleResult{Cadence: p.Cadence, NextRun: next}, nil
}

// rpcError maps domain errors to JSON-RPC error codes so clients can branch
// without string matching.
func rpcError(err error) error {
	var decErr *ckzlib.DecryptionError
	var parseErr *ckzlib.ParseError
	var schemaErr *ckzlib.SchemaError
	var sumErr *ckzlib.ChecksumMismatch

	switch {
	case errors.Is(err, ckzlib.ErrPasswordRequired):
		return &jrpc2.Error{Code: codePasswordRequired, Message: err.Error()}
	case errors.Is(err, ckzlib.ErrPasswordTooShort):
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	case errors.Is(err, ckzlib.ErrEmptySelection):
		return &jrpc2.Error{Code: codeEmptySelection, Message: err.Error()}
	case errors.Is(err, ckzlib.ErrBackupInFlight):
		return &jrpc2.Error{Code: codeBackupInFlight, Message: err.Error()}
	case errors.Is(err, ErrExtensionNotConnected):
		return &jrpc2.Error{Code: codeNotConnected, Message: err.Error()}
	case errors.As(err, &decErr):
		if decErr.Kind == ckzlib.WrongPassword {
			return &jrpc2.Error{Code: codeWrongPassword, Message: decErr.Error()}
		}
		return &jrpc2.Error{Code: codeInvalidBackup, Message: decErr.Error()}
	case errors.As(err, &parseErr):
		return &jrpc2.Error{Code: codeInvalidBackup, Message: parseErr.Error()}
	case errors.As(err, &schemaErr):
		return &jrpc2.Error{Code: codeInvalidBackup, Message: schemaErr.Error()}
	case errors.As(err, &sumErr):
		return &jrpc2.Error{Code: codeChecksumMismatch, Message: sumErr.Error()}
	default:
		return err
	}
}
