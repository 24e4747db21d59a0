package profile

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// ErrUnknownProfile is returned for a profile name that is not built in
var ErrUnknownProfile = errors.New("unknown profile")

// builtinProfiles maps profile names to their definitions
var builtinProfiles = map[string]*Profile{}

func init() {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		data, err := profileFS.ReadFile(path.Join("profiles", entry.Name()))
		if err != nil {
			continue
		}

		p, err := decode(data)
		if err != nil {
			continue
		}
		builtinProfiles[p.Name] = p
	}
}

func decode(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, errors.New("profile has no name")
	}
	p.Thresholds = p.Thresholds.WithDefaults()
	return &p, nil
}

// Load returns a copy of the built-in profile called name
func Load(name string) (*Profile, error) {
	if name == "" {
		name = DefaultName
	}
	p, ok := builtinProfiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	cp := *p
	cp.DisabledRules = append([]string(nil), p.DisabledRules...)
	return &cp, nil
}

// Available returns the names of all built-in profiles, sorted
func Available() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromFile loads a custom profile from a YAML file
func LoadFromFile(file string) (*Profile, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", file, err)
	}
	return p, nil
}
