package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir changes into dir for the duration of the test; stand-in for
// t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})
}

func TestFindConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte("projects: {}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv(ConfigEnvVar, configPath)

	found, err := FindConfig("sanitybox.yaml")
	if err != nil {
		t.Fatalf("Expected override to resolve, got error: %v", err)
	}
	if found != configPath {
		t.Errorf("Expected %s, got %s", configPath, found)
	}
}

func TestFindConfig_EnvOverrideMissing(t *testing.T) {
	t.Setenv(ConfigEnvVar, filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := FindConfig("sanitybox.yaml"); err == nil {
		t.Error("Expected error for missing override file")
	}
}

func TestFindConfig_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sanitybox.yaml"), []byte("projects: {}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	chdir(t, dir)

	found, err := FindConfig("sanitybox.yaml")
	if err != nil {
		t.Fatalf("Expected config to be found, got error: %v", err)
	}
	if found != "sanitybox.yaml" {
		t.Errorf("Expected relative path, got %s", found)
	}
}

func TestFindConfig_ConfigSubdirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "sanitybox.yaml"), []byte("projects: {}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	chdir(t, dir)

	found, err := FindConfig("sanitybox.yaml")
	if err != nil {
		t.Fatalf("Expected config to be found, got error: %v", err)
	}
	if found != filepath.Join("config", "sanitybox.yaml") {
		t.Errorf("Unexpected path: %s", found)
	}
}

func TestFindConfigOptional_NotFound(t *testing.T) {
	chdir(t, t.TempDir())

	if found := FindConfigOptional("sanitybox.yaml"); found != "" {
		t.Errorf("Expected empty string, got %s", found)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if !FileExists(file) {
		t.Error("Expected file to exist")
	}
	if FileExists(dir) {
		t.Error("Directory should not count as a file")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("Missing path should not exist")
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()

	if !DirExists(dir) {
		t.Error("Expected directory to exist")
	}
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if DirExists(file) {
		t.Error("File should not count as a directory")
	}
}
