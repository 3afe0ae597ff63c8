package ckzlib

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Sink is an emission destination for a produced backup. Sinks run
// independently and concurrently during the Emitting step; one sink failing
// never cancels another.
type Sink interface {
	// Name identifies the sink in outcomes, logs and history entries.
	Name() string
	// Emit writes the backup artifact under the given filename.
	Emit(ctx context.Context, filename string, data []byte) error
}

// SinkResult is the settled outcome of one sink. Err is nil on success.
type SinkResult struct {
	Sink string
	Err  error
}

// FileSink writes backup artifacts into a directory on a filesystem. The
// filesystem is abstracted so tests run against an in-memory one.
type FileSink struct {
	fs  afero.Fs
	dir string
}

// NewFileSink returns a sink writing into dir on the OS filesystem.
func NewFileSink(dir string) *FileSink {
	return NewFileSinkFs(afero.NewOsFs(), dir)
}

// NewFileSinkFs returns a sink writing into dir on the given filesystem.
func NewFileSinkFs(fs afero.Fs, dir string) *FileSink {
	return &FileSink{fs: fs, dir: dir}
}

func (s *FileSink) Name() string { return "file" }

// Path returns the destination path for a given artifact name.
func (s *FileSink) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

func (s *FileSink) Emit(_ context.Context, filename string, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.Path(filename), data, 0644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}
