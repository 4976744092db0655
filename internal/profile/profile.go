// Package profile stores named MongoDB connection targets in the user's
// config directory, so a CI job or developer can say --profile staging
// instead of pasting a URI into every invocation.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const storeFileName = "profiles.yaml"

// Swapped out by tests.
var configDirFunc = configDir

// Profile is one saved connection target. Database optionally pins the
// database queries are explained against; when empty, the global config
// decides.
type Profile struct {
	Name     string `yaml:"name"`
	ConnStr  string `yaml:"conn_str"`
	Database string `yaml:"database,omitempty"`
}

// store is the on-disk shape of the profile file.
type store struct {
	Default  string    `yaml:"default,omitempty"`
	Profiles []Profile `yaml:"profiles"`
}

// Get returns the named profile.
func Get(name string) (Profile, error) {
	st, err := readStore()
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, fmt.Errorf("no profiles configured")
		}
		return Profile{}, err
	}

	for _, p := range st.Profiles {
		if p.Name == name {
			return p, nil
		}
	}

	return Profile{}, fmt.Errorf("profile %q not found", name)
}

// List returns all saved profiles in file order.
func List() ([]Profile, error) {
	st, err := readStore()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return st.Profiles, nil
}

// Add saves p, replacing any existing profile with the same name.
func Add(p Profile) error {
	if !validConnStr(p.ConnStr) {
		return fmt.Errorf("connection string must start with mongodb:// or mongodb+srv://")
	}

	st, err := readStore()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if st == nil {
		st = &store{}
	}

	for i := range st.Profiles {
		if st.Profiles[i].Name == p.Name {
			st.Profiles[i] = p
			return writeStore(st)
		}
	}

	st.Profiles = append(st.Profiles, p)
	return writeStore(st)
}

// Remove deletes the named profile, clearing the default if it pointed at
// it.
func Remove(name string) error {
	st, err := readStore()
	if err != nil {
		return err
	}

	for i, p := range st.Profiles {
		if p.Name == name {
			st.Profiles = append(st.Profiles[:i], st.Profiles[i+1:]...)
			if st.Default == name {
				st.Default = ""
			}
			return writeStore(st)
		}
	}

	return fmt.Errorf("profile %q not found", name)
}

// SetDefault marks an existing profile as the one used when a run names
// neither --db nor --profile.
func SetDefault(name string) error {
	st, err := readStore()
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile %q not found", name)
		}
		return err
	}

	for _, p := range st.Profiles {
		if p.Name == name {
			st.Default = name
			return writeStore(st)
		}
	}

	return fmt.Errorf("profile %q not found", name)
}

func GetDefault() (string, error) {
	st, err := readStore()
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return st.Default, nil
}

func ClearDefault() error {
	st, err := readStore()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	st.Default = ""
	return writeStore(st)
}

// ResolveTarget picks the connection target for a run: an explicit --db
// value wins, then a named profile, then the default profile if one is set.
// The returned database is empty unless a profile pins one; empty values
// mean the global config decides.
func ResolveTarget(db, profileName string) (connStr, database string, err error) {
	if db != "" {
		return db, "", nil
	}

	if profileName == "" {
		profileName, err = GetDefault()
		if err != nil {
			return "", "", err
		}
	}
	if profileName == "" {
		return "", "", nil
	}

	p, err := Get(profileName)
	if err != nil {
		return "", "", err
	}
	return p.ConnStr, p.Database, nil
}

func validConnStr(s string) bool {
	return strings.HasPrefix(s, "mongodb://") || strings.HasPrefix(s, "mongodb+srv://")
}

func readStore() (*store, error) {
	path, err := storePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var st store
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}

	return &st, nil
}

func writeStore(st *store) error {
	dir, err := configDirFunc()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling profiles: %w", err)
	}

	path := filepath.Join(dir, storeFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing profiles %s: %w", path, err)
	}

	return nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(base, "mongolint"), nil
}

func storePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, storeFileName), nil
}
