package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// ftpDialTimeout bounds the control-connection dial.
const ftpDialTimeout = 30 * time.Second

// FTPSink uploads backup artifacts into a directory on an FTP server. The
// destination is an ftp:// or ftps:// URL; missing credentials default to
// anonymous login.
type FTPSink struct {
	host      string // host:port
	remoteDir string
	user      string // never persisted
	password  string // never persisted
	useTLS    bool
	cleanURL  string
}

// NewFTPSink parses an ftp:// or ftps:// destination URL into a sink.
func NewFTPSink(rawURL string) (*FTPSink, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("ftp: invalid destination URL: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "ftp" && scheme != "ftps" {
		return nil, fmt.Errorf("ftp: unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("ftp: destination URL is missing a host")
	}

	host := parsed.Host
	if !strings.Contains(host, ":") {
		host += ":21"
	}

	user, password := "anonymous", "anonymous"
	if parsed.User != nil {
		user = parsed.User.Username()
		if p, ok := parsed.User.Password(); ok {
			password = p
		}
	}

	remoteDir := parsed.Path
	if remoteDir == "" {
		remoteDir = "."
	}

	return &FTPSink{
		host:      host,
		remoteDir: remoteDir,
		user:      user,
		password:  password,
		useTLS:    scheme == "ftps",
		cleanURL:  stripCredentials(rawURL),
	}, nil
}

func (s *FTPSink) Name() string { return "ftp" }

// Destination returns the credential-free destination URL.
func (s *FTPSink) Destination() string { return s.cleanURL }

func (s *FTPSink) Emit(ctx context.Context, filename string, data []byte) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return fmt.Errorf("ftp: connect: %w", err)
	}
	defer conn.Quit()

	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		return fmt.Errorf("ftp: set binary mode: %w", err)
	}

	if s.remoteDir != "." {
		// MakeDir fails when the directory already exists; Stor decides.
		_ = conn.MakeDir(s.remoteDir)
	}

	remotePath := path.Join(s.remoteDir, filename)
	if err := conn.Stor(remotePath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("ftp: store %s: %w", remotePath, err)
	}
	return nil
}

func (s *FTPSink) connect(ctx context.Context) (*ftp.ServerConn, error) {
	dialOpts := []ftp.DialOption{
		ftp.DialWithTimeout(ftpDialTimeout),
		ftp.DialWithContext(ctx),
	}
	if s.useTLS {
		hostname := s.host
		if h, _, err := net.SplitHostPort(s.host); err == nil {
			hostname = h
		}
		dialOpts = append(dialOpts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: hostname,
			MinVersion: tls.VersionTLS12,
		}))
	}

	conn, err := ftp.Dial(s.host, dialOpts...)
	if err != nil {
		return nil, err
	}
	if err := conn.Login(s.user, s.password); err != nil {
		conn.Quit()
		return nil, err
	}
	return conn, nil
}

var _ ckzlib.Sink = (*FTPSink)(nil)
