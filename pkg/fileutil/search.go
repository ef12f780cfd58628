// Package fileutil provides filesystem lookup helpers used by the CLI
// to locate configuration files.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigEnvVar overrides the config search entirely when set.
const ConfigEnvVar = "SANITYBOX_CONFIG"

// ConfigSearchPaths returns the locations checked for a config file, in
// order: the working directory, ./config/, then /etc/sanitybox/.
func ConfigSearchPaths(filename string) []string {
	return []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("/etc/sanitybox", filename),
	}
}

// FindConfig resolves the path of a config file. The SANITYBOX_CONFIG
// environment variable wins when set; otherwise the standard search
// paths are checked in order. Returns an error when nothing exists.
func FindConfig(filename string) (string, error) {
	if override := os.Getenv(ConfigEnvVar); override != "" {
		if !FileExists(override) {
			return "", fmt.Errorf("config file from %s not found: %s", ConfigEnvVar, override)
		}
		return override, nil
	}

	paths := ConfigSearchPaths(filename)
	for _, path := range paths {
		if FileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("config file %q not found in any of: %v", filename, paths)
}

// FindConfigOptional is FindConfig without the error: it returns an
// empty string when no config file can be located.
func FindConfigOptional(filename string) string {
	path, err := FindConfig(filename)
	if err != nil {
		return ""
	}
	return path
}

// FileExists checks if a path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
