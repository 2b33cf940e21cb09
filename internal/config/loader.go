package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Session file extensions, in lookup order.
var extensions = []string{"json", "yaml", "yml"}

// ConfigDirs returns the existing session-file directories, in precedence
// order: $XSESSIONP_CONFIGDIR, $XDG_CONFIG_HOME/xsessionp (default
// ~/.config/xsessionp), then ~/.xsessionp.
func ConfigDirs() []string {
	var candidates []string
	if dir := os.Getenv("XSESSIONP_CONFIGDIR"); dir != "" {
		candidates = append(candidates, dir)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "xsessionp"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "xsessionp"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".xsessionp"))
	}

	var dirs []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// ListSessionFiles returns every session file discovered in the config dirs,
// sorted by path.
func ListSessionFiles() ([]string, error) {
	var files []string
	for _, dir := range ConfigDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if hasSessionExtension(entry.Name()) {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// ResolveSessionPath resolves a session argument: a path that exists is used
// as-is, otherwise the config dirs are searched for <name> or
// <name>.<extension>.
func ResolveSessionPath(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	for _, dir := range ConfigDirs() {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+"."+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("session %q not found (searched %v)", name, ConfigDirs())
}

// ReadSession parses a session file. JSON files parse through the YAML
// decoder, which accepts JSON as a subset.
func ReadSession(path string) (RawSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawSession{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var raw RawSession
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RawSession{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

func hasSessionExtension(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}
