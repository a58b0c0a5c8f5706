package assets

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

const ConfigFileName = "config.yaml"

//go:embed default-config.yaml
var DefaultConfig []byte

//go:embed config.schema.json
var ConfigSchema []byte

// WriteDefaultConfigIfMissing writes config.yaml to targetDir if it does not exist.
// It reports whether a file was written.
func WriteDefaultConfigIfMissing(targetDir string) (bool, error) {
	if targetDir == "" {
		return false, errors.New("empty targetDir")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return false, err
	}
	p := filepath.Join(targetDir, ConfigFileName)
	if _, err := os.Stat(p); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	// the file may later hold an API token
	if err := os.WriteFile(p, DefaultConfig, 0o600); err != nil {
		return false, err
	}
	return true, nil
}
