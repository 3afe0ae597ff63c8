package cookies

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

// SourceInfo describes where a snapshot was imported from. Only the path
// and format are held; cookie values never appear here.
type SourceInfo struct {
	Path   string
	Format Format
}

// Load reads the cookie file at path in whatever format it is in and
// returns snapshot records ready for the backup pipeline.
func Load(path string, log logger.Logger) ([]ckzlib.CookieRecord, *SourceInfo, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	info := &SourceInfo{Path: path, Format: format}

	var records []ckzlib.CookieRecord
	switch format {
	case FormatFirefox:
		records, err = readSQLite(path, ReadFirefox)
	case FormatChrome:
		records, err = readSQLite(path, ReadChrome)
	case FormatNetscape:
		f, oerr := os.Open(path)
		if oerr != nil {
			return nil, nil, fmt.Errorf("open cookie file: %w", oerr)
		}
		defer f.Close()
		records, err = ParseNetscape(f, log)
	case FormatCSV:
		f, oerr := os.Open(path)
		if oerr != nil {
			return nil, nil, fmt.Errorf("open cookie file: %w", oerr)
		}
		defer f.Close()
		records, err = ParseCSV(f)
	case FormatBackup:
		records, err = loadBackupContent(path)
	case FormatText:
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, nil, fmt.Errorf("read cookie file: %w", rerr)
		}
		snap, ok := ExtractSnapshot(string(data))
		if !ok {
			return nil, nil, fmt.Errorf("no cookie array found in %s", path)
		}
		records = snap
	default:
		return nil, nil, fmt.Errorf("unrecognized cookie file format: %s", path)
	}
	if err != nil {
		return nil, nil, err
	}

	return records, info, nil
}

// loadBackupContent accepts an existing backup file as an import source.
// Only the plain (unencrypted) snapshot form can serve as a backup source;
// encrypted content belongs to the restore pipeline where a password is
// available.
func loadBackupContent(path string) ([]ckzlib.CookieRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}
	classified := ckzlib.Classify(strings.TrimSpace(string(data)))
	if classified.Kind != ckzlib.ContentPlainSnapshot {
		return nil, fmt.Errorf("%s is an encrypted backup, restore it instead of importing it", path)
	}
	return classified.Snapshot, nil
}

func readSQLite(path string, reader func(string) ([]ckzlib.CookieRecord, error)) ([]ckzlib.CookieRecord, error) {
	copied, cleanup, err := SafeCopy(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return reader(copied)
}

// FileSource adapts a cookie file into the backup pipeline's cookie source.
type FileSource struct {
	Path string
	Log  logger.Logger
}

func (s *FileSource) Cookies(ctx context.Context) (ckzlib.Snapshot, error) {
	records, _, err := Load(s.Path, s.Log)
	if err != nil {
		return nil, err
	}
	return records, nil
}

var _ ckzlib.CookieSource = (*FileSource)(nil)
