package ckzlib

import (
	"context"
	"errors"
	"sync"
)

// mockSource is a canned cookie-store read side.
type mockSource struct {
	snapshot Snapshot
	err      error
}

func (m *mockSource) Cookies(context.Context) (Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

// mockWriter records replayed cookies and can be told to reject some.
type mockWriter struct {
	mu       sync.Mutex
	received []SetCookieRequest
	failOn   map[string]error // cookie name -> error
}

func (m *mockWriter) SetCookie(_ context.Context, req SetCookieRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[req.Cookie.Name]; ok {
		return err
	}
	m.received = append(m.received, req)
	return nil
}

func (m *mockWriter) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.received))
	for i, r := range m.received {
		out[i] = r.Cookie.Name
	}
	return out
}

// mockSink records emissions and can fail or block.
type mockSink struct {
	name  string
	err   error
	block chan struct{} // when non-nil, Emit waits until closed

	mu    sync.Mutex
	calls int
	last  []byte
	file  string
}

func (m *mockSink) Name() string { return m.name }

func (m *mockSink) Emit(_ context.Context, filename string, data []byte) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.file = filename
	m.last = append([]byte(nil), data...)
	return m.err
}

func (m *mockSink) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var errStoreDown = errors.New("cookie store unavailable")
