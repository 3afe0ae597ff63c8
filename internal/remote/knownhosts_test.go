package remote

import (
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

type fakeAddr struct{ address string }

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return a.address }

func generateHostKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}
	return sshPub
}

func TestTOFUFirstUseAccepts(t *testing.T) {
	khFile := filepath.Join(t.TempDir(), "known_hosts")
	cb := tofuHostKeyCallback(khFile)
	key := generateHostKey(t)
	addr := fakeAddr{address: "192.0.2.1:22"}

	if err := cb("192.0.2.1:22", addr, key); err != nil {
		t.Fatalf("first use must be accepted: %v", err)
	}

	data, err := os.ReadFile(khFile)
	if err != nil {
		t.Fatalf("known_hosts not written: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("known_hosts is empty after first-use accept")
	}

	// Same key again passes.
	if err := cb("192.0.2.1:22", addr, key); err != nil {
		t.Errorf("known host with matching key rejected: %v", err)
	}
}

func TestTOFUChangedKeyRejected(t *testing.T) {
	khFile := filepath.Join(t.TempDir(), "known_hosts")
	cb := tofuHostKeyCallback(khFile)
	addr := fakeAddr{address: "192.0.2.1:22"}

	if err := cb("192.0.2.1:22", addr, generateHostKey(t)); err != nil {
		t.Fatal(err)
	}

	err := cb("192.0.2.1:22", addr, generateHostKey(t))
	if err == nil {
		t.Fatal("changed host key must be rejected")
	}
	if !strings.Contains(err.Error(), "host key changed") {
		t.Errorf("err = %v, want a host-key-changed message", err)
	}
}

func TestTOFUDistinctHostsCoexist(t *testing.T) {
	khFile := filepath.Join(t.TempDir(), "known_hosts")
	cb := tofuHostKeyCallback(khFile)

	for _, host := range []string{"192.0.2.1:22", "192.0.2.2:22"} {
		addr := net.Addr(fakeAddr{address: host})
		if err := cb(host, addr, generateHostKey(t)); err != nil {
			t.Fatalf("first use for %s: %v", host, err)
		}
	}
}
