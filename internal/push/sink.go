package push

import (
	"context"
	"fmt"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// Sink adapts the push client to the backup emission interface.
type Sink struct {
	client  *Client
	caption string
}

// NewSink wraps a client as an emission sink. caption, when non-empty, is
// attached to every delivered document.
func NewSink(client *Client, caption string) *Sink {
	return &Sink{client: client, caption: caption}
}

func (s *Sink) Name() string { return "push" }

func (s *Sink) Emit(ctx context.Context, filename string, data []byte) error {
	caption := s.caption
	if caption == "" {
		caption = fmt.Sprintf("cookie backup %s", filename)
	}
	return s.client.SendDocument(ctx, filename, data, caption)
}

var _ ckzlib.Sink = (*Sink)(nil)
