package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// Client is the daemon-facing surface the native host dispatches to. It is
// satisfied by the RPC client and by the in-process fallback used when no
// daemon is running.
type Client interface {
	Backup(cookies []ckzlib.CookieRecord, opts *BackupOptions) (*ckzlib.BackupResult, error)
	Restore(content string, opts *RestoreOptions) (*ckzlib.RestoreReport, error)
	History(limit int) ([]ckzlib.HistoryEntry, error)
	FlushHistory() (bool, error)
	Version() (string, error)
	Close() error
}

// BackupOptions carries the extension-selected backup settings.
type BackupOptions struct {
	Password string `json:"password,omitempty"`
	Enhanced bool   `json:"enhanced,omitempty"`
	Profile  string `json:"profile,omitempty"`
	Domains  string `json:"domains,omitempty"`
}

// RestoreOptions carries the extension-selected restore settings.
type RestoreOptions struct {
	Password       string `json:"password,omitempty"`
	StrictChecksum bool   `json:"strictChecksum,omitempty"`
}

// BackupParams is the message body of a "backup" request. The extension
// attaches its cookie dump; the host never reads the browser's store itself.
type BackupParams struct {
	Cookies  []ckzlib.CookieRecord `json:"cookies"`
	Password string                `json:"password,omitempty"`
	Enhanced bool                  `json:"enhanced,omitempty"`
	Profile  string                `json:"profile,omitempty"`
	Domains  string                `json:"domains,omitempty"`
}

// RestoreParams is the message body of a "restore" request.
type RestoreParams struct {
	Content        string `json:"content"`
	Password       string `json:"password,omitempty"`
	StrictChecksum bool   `json:"strictChecksum,omitempty"`
}

// HistoryParams is the message body of a "history" request.
type HistoryParams struct {
	Limit int `json:"limit,omitempty"`
}

// Host is the native messaging companion the browser launches. It reads
// framed requests on stdin, dispatches them to the client and writes framed
// responses on stdout.
type Host struct {
	client Client
	stdin  io.Reader
	stdout io.Writer
}

// NewHost creates a host bound to os.Stdin and os.Stdout.
func NewHost(client Client) *Host {
	return &Host{
		client: client,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// Run serves requests until the browser closes stdin.
func (h *Host) Run() error {
	for {
		err := h.processOneMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *Host) processOneMessage() error {
	data, err := ReadMessage(h.stdin)
	if err != nil {
		return err
	}

	req, err := ParseRequest(data)
	if err != nil {
		resp := MakeErrorResponse(0, fmt.Errorf("invalid request: %w", err))
		return WriteMessage(h.stdout, resp)
	}

	return WriteMessage(h.stdout, h.handleRequest(req))
}

func (h *Host) handleRequest(req *Request) []byte {
	var result any
	var err error

	switch req.Method {
	case "version":
		result, err = h.client.Version()

	case "backup":
		var params BackupParams
		if err = json.Unmarshal(req.Message, &params); err != nil {
			return MakeErrorResponse(req.ID, fmt.Errorf("invalid backup params: %w", err))
		}
		if params.Cookies == nil {
			return MakeErrorResponse(req.ID, errors.New("cookies are required"))
		}
		result, err = h.client.Backup(params.Cookies, &BackupOptions{
			Password: params.Password,
			Enhanced: params.Enhanced,
			Profile:  params.Profile,
			Domains:  params.Domains,
		})

	case "restore":
		var params RestoreParams
		if err = json.Unmarshal(req.Message, &params); err != nil {
			return MakeErrorResponse(req.ID, fmt.Errorf("invalid restore params: %w", err))
		}
		if params.Content == "" {
			return MakeErrorResponse(req.ID, errors.New("content is required"))
		}
		result, err = h.client.Restore(params.Content, &RestoreOptions{
			Password:       params.Password,
			StrictChecksum: params.StrictChecksum,
		})

	case "history":
		var params HistoryParams
		if len(req.Message) > 0 {
			if err = json.Unmarshal(req.Message, &params); err != nil {
				return MakeErrorResponse(req.ID, fmt.Errorf("invalid history params: %w", err))
			}
		}
		result, err = h.client.History(params.Limit)

	case "flush":
		var flushed bool
		flushed, err = h.client.FlushHistory()
		if err == nil {
			result = map[string]bool{"success": flushed}
		}

	default:
		return MakeErrorResponse(req.ID, fmt.Errorf("unknown method: %s", req.Method))
	}

	if err != nil {
		return MakeErrorResponse(req.ID, err)
	}
	return MakeSuccessResponse(req.ID, result)
}
