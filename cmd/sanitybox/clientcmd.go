package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"sanitybox/internal/client"
	"sanitybox/internal/project"
	"sanitybox/pkg/fileutil"
	"sanitybox/pkg/jsonfmt"

	"github.com/spf13/cobra"
)

const defaultConfigName = "sanitybox.yaml"

var (
	apiConfigFile string
	apiProject    string
	apiVerbose    bool
	apiNoColor    bool
)

// addAPIFlags registers the flags shared by every command that talks to
// the Sanity API.
func addAPIFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&apiConfigFile, "config", "c", getEnvOrDefault("SANITYBOX_CONFIG_FILE", ""), "Path to sanitybox.yaml configuration file")
	cmd.Flags().StringVarP(&apiProject, "project", "P", getEnvOrDefault("SANITYBOX_PROJECT", ""), "Project name from the configuration file")
	cmd.Flags().BoolVarP(&apiVerbose, "verbose", "v", false, "Log API requests to stderr")
	cmd.Flags().BoolVar(&apiNoColor, "no-color", false, "Disable colorized output")
}

// newProjectClient loads the configuration, resolves the selected
// project, and builds an API client for it. With a single configured
// project the --project flag may be omitted.
func newProjectClient() (*client.Client, *project.Project, error) {
	configPath := apiConfigFile
	if configPath == "" {
		found, err := fileutil.FindConfig(defaultConfigName)
		if err != nil {
			return nil, nil, fmt.Errorf("no configuration file found, use --config: %w", err)
		}
		configPath = found
	}

	_, projects, err := project.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(projects) == 0 {
		return nil, nil, fmt.Errorf("no projects configured in %s", configPath)
	}

	name := apiProject
	if name == "" {
		if len(projects) > 1 {
			return nil, nil, fmt.Errorf("multiple projects configured, select one with --project")
		}
		for only := range projects {
			name = only
		}
	}

	proj, ok := projects[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown project %q in %s", name, configPath)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if apiVerbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// SANITY_TOKEN overrides the configured token so it can stay out of
	// config files on shared machines.
	token := proj.Token
	if env := os.Getenv("SANITY_TOKEN"); env != "" {
		token = env
	}

	c, err := client.New(client.Config{
		ProjectID:  proj.ProjectID,
		Dataset:    proj.Dataset,
		APIVersion: proj.APIVersion,
		APIHost:    proj.APIHost,
		UseCDN:     proj.UseCDN,
		Token:      token,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, proj, nil
}

// printJSON renders raw API JSON to stdout, colorized when stdout is a
// terminal and --no-color is not set.
func printJSON(data []byte) error {
	if apiNoColor {
		jsonfmt.Disable()
	}
	out, err := jsonfmt.FormatRaw(data)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
