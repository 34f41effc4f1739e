package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/wca-notifier/internal/config"
	"github.com/pfrederiksen/wca-notifier/internal/crypto"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
)

// Open returns the store selected by cfg.Driver.
func Open(cfg config.Storage) (subscription.Store, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		return NewFileStore(cfg.DataDir, crypto.NewSealer(cfg.EncryptionKey))
	case config.DriverSQLite:
		return OpenSQLite(cfg.DSN)
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// expandHome expands a leading ~/ to the home directory.
func expandHome(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting home directory")
	}
	return filepath.Join(home, dir[2:]), nil
}
