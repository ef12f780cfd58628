package project

// Project represents a validated Sanity project configuration
type Project struct {
	Name          string
	ProjectID     string
	Dataset       string
	APIVersion    string
	APIHost       string
	UseCDN        bool
	Token         string
	WebhookSecret string
}

// ProjectConfig represents the YAML configuration for a project
type ProjectConfig struct {
	ProjectID     string `yaml:"project_id"`
	Dataset       string `yaml:"dataset"`
	APIVersion    string `yaml:"api_version"`
	APIHost       string `yaml:"api_host"`
	UseCDN        *bool  `yaml:"use_cdn"`
	Token         string `yaml:"token"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// Config represents the root configuration structure
type Config struct {
	Projects map[string]ProjectConfig `yaml:"projects"`
}
