// Package credentials stores API keys for completion, embedding and vector
// store providers in credentials.toml inside the .ragsql/ directory.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/ragsql/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// Manager reads and writes credentials.toml.
type Manager struct {
	path string
	now  func() time.Time
}

// NewManager resolves the .ragsql/ directory, preferring override, and
// returns a Manager for the credentials file inside it.
func NewManager(override string) (*Manager, error) {
	path, err := dotdir.NewManager().File(override, credentialsFile)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path, now: time.Now}, nil
}

// GetTarget returns the path of the credentials file.
func (m *Manager) GetTarget() string {
	return m.path
}

// Load reads the credentials file. A missing file yields empty credentials.
func (m *Manager) Load() (*Credentials, error) {
	creds := &Credentials{Version: currentVersion}

	data, err := os.ReadFile(m.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading credentials: %w", err)
	default:
		if err := toml.Unmarshal(data, creds); err != nil {
			return nil, fmt.Errorf("parsing credentials %s: %w", m.path, err)
		}
	}

	if creds.Providers == nil {
		creds.Providers = map[string]ProviderCredential{}
	}
	return creds, nil
}

// Save replaces the credentials file. The file is written next to the
// target and renamed over it, readable only by the owner.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

func (m *Manager) update(fn func(*Credentials)) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}
	fn(creds)
	return m.Save(creds)
}

// SetKey stores key for provider, replacing any previous key.
func (m *Manager) SetKey(provider, key string) error {
	return m.update(func(c *Credentials) {
		c.Providers[provider] = ProviderCredential{APIKey: key, UpdatedAt: m.now().UTC()}
	})
}

// GetKey returns the stored key for provider, or "" when none is stored.
func (m *Manager) GetKey(provider string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}
	return creds.Providers[provider].APIKey, nil
}

// RemoveKey deletes the stored key for provider. Removing an absent key is
// not an error.
func (m *Manager) RemoveKey(provider string) error {
	return m.update(func(c *Credentials) {
		delete(c.Providers, provider)
	})
}

// ListProviders returns the providers with a stored key, sorted by name.
func (m *Manager) ListProviders() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(creds.Providers))
	for name := range creds.Providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// ResolveKey returns the key to use for provider: explicit if set, then the
// stored key, then the provider's environment variable. Providers that take
// no key, such as ollama, resolve to "".
func (m *Manager) ResolveKey(provider, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	stored, err := m.GetKey(provider)
	if err != nil || stored != "" {
		return stored, err
	}

	if env := EnvVarForProvider(provider); env != "" {
		return os.Getenv(env), nil
	}
	return "", nil
}

// EnvVarForProvider returns the environment variable holding provider's key,
// or "" for an unknown provider.
func EnvVarForProvider(provider string) string {
	if p, ok := lookup(provider); ok {
		return p.EnvVar
	}
	return ""
}

// SupportedProviders returns the names of providers that take a key.
func SupportedProviders() []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}
	return names
}

// IsSupportedProvider reports whether provider takes a key.
func IsSupportedProvider(provider string) bool {
	_, ok := lookup(provider)
	return ok
}

// ProviderInfo returns the description of provider.
func ProviderInfo(provider string) (Provider, bool) {
	return lookup(provider)
}

func lookup(name string) (Provider, bool) {
	i := slices.IndexFunc(providers, func(p Provider) bool { return p.Name == name })
	if i < 0 {
		return Provider{}, false
	}
	return providers[i], true
}
