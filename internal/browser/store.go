// Package browser defines the cookie-store collaborator the backup and
// restore pipelines talk to, and the native messaging transport used when
// the browser launches this process as an extension companion.
package browser

import (
	"context"
	"sync"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// Store is a browser cookie store: readable for backup, writable for
// restore. Implementations include the WebSocket extension bridge, the
// SQLite store readers and the in-memory store.
type Store interface {
	ckzlib.CookieSource
	ckzlib.CookieWriter
}

// StaticSource serves a fixed cookie dump, such as the one an extension
// attaches to a backup request.
type StaticSource []ckzlib.CookieRecord

func (s StaticSource) Cookies(ctx context.Context) (ckzlib.Snapshot, error) {
	out := make(ckzlib.Snapshot, len(s))
	copy(out, s)
	return out, nil
}

// MemStore is an in-memory cookie store. It backs restore dry-runs and
// tests; writes replace any cookie with the same domain, name and path.
type MemStore struct {
	mu      sync.Mutex
	order   []string
	cookies map[string]ckzlib.CookieRecord
}

func NewMemStore(seed ...ckzlib.CookieRecord) *MemStore {
	m := &MemStore{cookies: make(map[string]ckzlib.CookieRecord)}
	for _, rec := range seed {
		m.put(rec)
	}
	return m
}

func cookieKey(rec ckzlib.CookieRecord) string {
	return rec.Domain + "\x00" + rec.Name + "\x00" + rec.Path
}

func (m *MemStore) put(rec ckzlib.CookieRecord) {
	key := cookieKey(rec)
	if _, ok := m.cookies[key]; !ok {
		m.order = append(m.order, key)
	}
	m.cookies[key] = rec
}

func (m *MemStore) Cookies(ctx context.Context) (ckzlib.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(ckzlib.Snapshot, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.cookies[key])
	}
	return out, nil
}

func (m *MemStore) SetCookie(ctx context.Context, req ckzlib.SetCookieRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(req.Cookie)
	return nil
}

// Len reports the number of distinct cookies held.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cookies)
}

var (
	_ Store               = (*MemStore)(nil)
	_ ckzlib.CookieSource = (StaticSource)(nil)
)
