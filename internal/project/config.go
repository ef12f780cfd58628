package project

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sanitybox/internal/client"
	"sanitybox/internal/security"
)

var (
	projectIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	datasetPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// LoadConfig loads and validates the configuration from a YAML file
func LoadConfig(configPath string) (*Config, map[string]*Project, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Initialize Projects map if it's nil (happens with empty YAML files)
	if config.Projects == nil {
		config.Projects = make(map[string]ProjectConfig)
	}

	// Validate and create Project instances
	projects := make(map[string]*Project)
	for name, projectConfig := range config.Projects {
		errors := ValidateProjectConfig(name, projectConfig)
		if len(errors) > 0 {
			return nil, nil, fmt.Errorf("invalid configuration for project '%s':\n%s",
				name, strings.Join(errors, "\n"))
		}

		// Apply defaults
		apiVersion := projectConfig.APIVersion
		if apiVersion == "" {
			apiVersion = client.DefaultAPIVersion
		}

		// Reads go through the CDN unless explicitly disabled
		useCDN := true
		if projectConfig.UseCDN != nil {
			useCDN = *projectConfig.UseCDN
		}

		projects[name] = &Project{
			Name:          name,
			ProjectID:     projectConfig.ProjectID,
			Dataset:       projectConfig.Dataset,
			APIVersion:    apiVersion,
			APIHost:       projectConfig.APIHost,
			UseCDN:        useCDN,
			Token:         projectConfig.Token,
			WebhookSecret: projectConfig.WebhookSecret,
		}
	}

	return &config, projects, nil
}

// ValidateProjectConfig validates a single project configuration
func ValidateProjectConfig(name string, config ProjectConfig) []string {
	var errors []string

	if err := security.ValidateProjectName(name); err != nil {
		errors = append(errors, fmt.Sprintf("  - Project '%s': invalid name: %v", name, err))
	}

	// Validate project ID
	if config.ProjectID == "" {
		errors = append(errors, fmt.Sprintf("  - Project '%s': missing required 'project_id' field", name))
	} else if !projectIDPattern.MatchString(config.ProjectID) {
		errors = append(errors, fmt.Sprintf("  - Project '%s': project_id must be lowercase alphanumeric, got '%s'", name, config.ProjectID))
	}

	// Validate dataset
	if config.Dataset == "" {
		errors = append(errors, fmt.Sprintf("  - Project '%s': missing required 'dataset' field", name))
	} else if !datasetPattern.MatchString(config.Dataset) {
		errors = append(errors, fmt.Sprintf("  - Project '%s': dataset must be lowercase alphanumeric, got '%s'", name, config.Dataset))
	}

	// Validate API version (YYYY-MM-DD)
	if config.APIVersion != "" {
		if _, err := time.Parse("2006-01-02", config.APIVersion); err != nil {
			errors = append(errors, fmt.Sprintf("  - Project '%s': api_version must use YYYY-MM-DD format, got '%s'", name, config.APIVersion))
		}
	}

	// Validate webhook secret when one is configured. The secret is only
	// required for projects served by the webhook receiver, so absence is
	// not an error here.
	if config.WebhookSecret != "" {
		if err := security.ValidateSecret(config.WebhookSecret); err != nil {
			errors = append(errors, fmt.Sprintf("  - Project '%s': webhook_secret: %v", name, err))
		}
	}

	return errors
}

// HasWebhookSecret reports whether the project can verify inbound
// webhook deliveries.
func (p *Project) HasWebhookSecret() bool {
	return p.WebhookSecret != ""
}
