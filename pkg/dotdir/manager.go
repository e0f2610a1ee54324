// Package dotdir manages the .ragsql/ and ~/.ragsql directories.
//
// The directory holds config.toml, credentials.toml, the interaction
// database and the persisted vector index artifacts.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirName = ".ragsql"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path of the .ragsql directory to use, creating
// it when missing. An explicit overrideDir wins, then ./.ragsql when present,
// then ~/.ragsql.
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.choose(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating ragsql directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

func (m *Manager) choose(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}

	if local, ok := localDir(); ok {
		return local, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// File resolves name inside the target directory. Absolute names are
// returned unchanged.
func (m *Manager) File(overrideDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	target, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(target, name), nil
}

// localDir reports ./.ragsql when it exists as a directory.
func localDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(cwd, dirName)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}
