// Package credentials manages Linear API keys stored per profile in
// credentials.toml inside the .linctl/ directory. The LINEAR_API_KEY
// environment variable always takes precedence over stored keys.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/linctl/linctl/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0

	// EnvAPIKey is the environment variable consulted before any stored key.
	EnvAPIKey = "LINEAR_API_KEY"

	// DefaultProfile is used when no profile is configured.
	DefaultProfile = "default"
)

// Manager manages reading and writing credentials.toml in the .linctl/ directory.
type Manager struct {
	ddm        *dotdir.Manager
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the .linctl/ directory; otherwise the standard dotdir resolution applies.
func NewManager(override string) (*Manager, error) {
	mgr := &Manager{}
	mgr.ddm = dotdir.NewManager()

	target, err := mgr.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home dir: %w", err)
		}
		target = filepath.Join(home, ".linctl")
		if err := os.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("creating linctl dir: %w", err)
		}
	}

	mgr.targetPath = filepath.Join(target, credentialsFile)

	return mgr, nil
}

// Load reads credentials.toml from the target directory.
// Returns an empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{
				Version:  currentVersion,
				Profiles: make(map[string]ProfileCredential),
			}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.Profiles == nil {
		creds.Profiles = make(map[string]ProfileCredential)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetKey stores an API key for the given profile.
func (m *Manager) SetKey(profile, key string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Profiles[profile] = ProfileCredential{APIKey: key}

	return m.Save(creds)
}

// GetKey returns the stored API key for the given profile.
// Returns an empty string if no key is stored.
func (m *Manager) GetKey(profile string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}

	pc, ok := creds.Profiles[profile]
	if !ok {
		return "", nil
	}

	return pc.APIKey, nil
}

// RemoveKey deletes the stored credential for a profile.
func (m *Manager) RemoveKey(profile string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	delete(creds.Profiles, profile)

	return m.Save(creds)
}

// ListProfiles returns the names of profiles that have stored credentials.
func (m *Manager) ListProfiles() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	profiles := make([]string, 0, len(creds.Profiles))
	for name := range creds.Profiles {
		profiles = append(profiles, name)
	}

	sort.Strings(profiles)

	return profiles, nil
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

// ResolveKey returns the API key for the given profile, consulting the
// LINEAR_API_KEY environment variable first. The second return names the
// source ("env" or "credentials"), empty when no key was found.
func (m *Manager) ResolveKey(profile string) (string, string, error) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, "env", nil
	}

	if profile == "" {
		profile = DefaultProfile
	}

	key, err := m.GetKey(profile)
	if err != nil {
		return "", "", err
	}
	if key == "" {
		return "", "", nil
	}

	return key, "credentials", nil
}
