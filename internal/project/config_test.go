package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sanitybox.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
projects:
  blog:
    project_id: zp7mbokg
    dataset: production
    token: sk-test-token
    webhook_secret: k8Jq2mNp5xR7vT1wY4zB6cD9fG3hL0sA8eU2
  docs:
    project_id: 3do82whm
    dataset: staging
    api_version: "2021-06-07"
    use_cdn: false
`)

	_, projects, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(projects))
	}

	blog := projects["blog"]
	if blog.ProjectID != "zp7mbokg" || blog.Dataset != "production" {
		t.Errorf("Unexpected blog project: %+v", blog)
	}
	if !blog.UseCDN {
		t.Error("Expected use_cdn to default to true")
	}
	if blog.APIVersion == "" {
		t.Error("Expected api_version to receive a default")
	}
	if !blog.HasWebhookSecret() {
		t.Error("Expected blog to have a webhook secret")
	}

	docs := projects["docs"]
	if docs.UseCDN {
		t.Error("Expected use_cdn=false to be honored")
	}
	if docs.APIVersion != "2021-06-07" {
		t.Errorf("Expected explicit api_version, got %s", docs.APIVersion)
	}
	if docs.HasWebhookSecret() {
		t.Error("Expected docs to have no webhook secret")
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")

	config, projects, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected empty config to load, got: %v", err)
	}
	if config.Projects == nil {
		t.Error("Expected projects map to be initialized")
	}
	if len(projects) != 0 {
		t.Errorf("Expected no projects, got %d", len(projects))
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidateProjectConfig(t *testing.T) {
	testCases := []struct {
		name    string
		project string
		config  ProjectConfig
		valid   bool
	}{
		{
			"valid minimal",
			"blog",
			ProjectConfig{ProjectID: "zp7mbokg", Dataset: "production"},
			true,
		},
		{
			"missing project id",
			"blog",
			ProjectConfig{Dataset: "production"},
			false,
		},
		{
			"uppercase project id",
			"blog",
			ProjectConfig{ProjectID: "ZP7MBOKG", Dataset: "production"},
			false,
		},
		{
			"missing dataset",
			"blog",
			ProjectConfig{ProjectID: "zp7mbokg"},
			false,
		},
		{
			"bad api version",
			"blog",
			ProjectConfig{ProjectID: "zp7mbokg", Dataset: "production", APIVersion: "v1"},
			false,
		},
		{
			"placeholder webhook secret",
			"blog",
			ProjectConfig{ProjectID: "zp7mbokg", Dataset: "production", WebhookSecret: "replace-with-secret-must-be-at-least-32-chars-long"},
			false,
		},
		{
			"unsafe project name",
			"../etc",
			ProjectConfig{ProjectID: "zp7mbokg", Dataset: "production"},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errors := ValidateProjectConfig(tc.project, tc.config)
			if tc.valid && len(errors) > 0 {
				t.Errorf("Expected valid config, got errors: %v", errors)
			}
			if !tc.valid && len(errors) == 0 {
				t.Error("Expected validation errors, got none")
			}
		})
	}
}
