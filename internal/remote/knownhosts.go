// Package remote provides emission sinks that upload backup artifacts to
// remote servers over SFTP and FTP. Credentials arrive in the destination
// URL and are never persisted; only the credential-free URL appears in
// history entries and logs.
package remote

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// knownHostsMu serializes trust-on-first-use appends. New-host appends are
// rare but concurrent uploads to different new hosts must not corrupt the
// file.
var knownHostsMu sync.Mutex

// tofuHostKeyCallback returns an ssh.HostKeyCallback with trust-on-first-use
// semantics: a known host with a matching key is accepted, a changed key is
// rejected, an unknown host is accepted and persisted. The known_hosts file
// is isolated from the system one so backups never pollute ~/.ssh.
func tofuHostKeyCallback(knownHostsFile string) ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		if err := os.MkdirAll(filepath.Dir(knownHostsFile), 0700); err != nil {
			return fmt.Errorf("sftp: create known_hosts directory: %w", err)
		}

		if _, err := os.Stat(knownHostsFile); err == nil {
			cb, loadErr := knownhosts.New(knownHostsFile)
			if loadErr != nil {
				return fmt.Errorf("sftp: load known_hosts: %w", loadErr)
			}
			err := cb(hostname, remote, key)
			if err == nil {
				return nil
			}
			var keyErr *knownhosts.KeyError
			if errors.As(err, &keyErr) {
				if len(keyErr.Want) > 0 {
					return fmt.Errorf(
						"sftp: WARNING: host key changed for %s (got %s); if this is expected, remove the old entry from %s",
						hostname, ssh.FingerprintSHA256(key), knownHostsFile,
					)
				}
				// Unknown host, fall through to first-use accept.
			} else {
				return err
			}
		}

		return appendKnownHost(knownHostsFile, hostname, key)
	}
}

func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	knownHostsMu.Lock()
	defer knownHostsMu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("sftp: write known_hosts: %w", err)
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	_, err = fmt.Fprintln(f, line)
	return err
}

// stripCredentials removes userinfo from a destination URL so it is safe to
// log or persist.
func stripCredentials(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.User = nil
	return parsed.String()
}
