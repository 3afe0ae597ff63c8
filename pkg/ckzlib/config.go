package ckzlib

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the default configuration directory.
const ConfigDirEnv = "CKZVAULT_CONFIG_DIR"

var (
	// ConfigDir is the absolute path to the ckzvault configuration directory.
	ConfigDir string
	// BackupDir is the default local destination for backup artifacts.
	BackupDir string

	historyFileName  string
	settingsFileName string
)

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	if err := setConfigDir(dir); err != nil {
		panic(err)
	}
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cdr, "ckzvault")
}

func setConfigDir(dir string) error {
	if dir == "" {
		return errors.New("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	ConfigDir = abs
	BackupDir = filepath.Join(abs, "backups")
	historyFileName = filepath.Join(abs, "history.ckzdat")
	settingsFileName = filepath.Join(abs, "settings.json")
	return nil
}

// SetConfigDir points ckzvault at a different configuration directory,
// creating it if needed.
func SetConfigDir(dir string) error {
	return setConfigDir(dir)
}

// HistoryPath returns the ledger file location under the config directory.
func HistoryPath() string { return historyFileName }

// KnownHostsPath returns the location of the SSH known_hosts file the SFTP
// sink trusts. Isolated from ~/.ssh so backups never touch system SSH state.
func KnownHostsPath() string { return filepath.Join(ConfigDir, "known_hosts") }

// Settings is the small persisted companion state shared between the CLI and
// the daemon. AutoBackupSchedule is the cadence token the scheduler consumes;
// empty disables automatic backups.
type Settings struct {
	AutoBackupSchedule string `json:"autoBackupSchedule,omitempty"`
	Profile            string `json:"profile,omitempty"`
	BackupDir          string `json:"backupDir,omitempty"`
	PushEnabled        bool   `json:"pushEnabled,omitempty"`
}

// LoadSettings reads settings.json from the config directory. A missing file
// yields zero-value settings.
func LoadSettings() (*Settings, error) {
	var s Settings
	data, err := os.ReadFile(settingsFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save persists the settings to the config directory.
func (s *Settings) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(settingsFileName, data, 0644)
}
