package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is the saved CLI state at ~/.contratos/profile.yaml, written by
// `contratos token set`. It only ever holds the API key, 0600.
type Profile struct {
	APIKey string `yaml:"api_key"`
	path   string
}

func profilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".contratos", "profile.yaml"), nil
}

// LoadProfile reads the saved profile. A missing file yields an empty
// profile, not an error.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		var err error
		path, err = profilePath()
		if err != nil {
			return nil, err
		}
	}

	p := &Profile{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return p, nil
}

// Save writes the profile to disk, creating the directory if needed.
func (p *Profile) Save() error {
	if p.path == "" {
		var err error
		p.path, err = profilePath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0600)
}
