package security

import (
	"fmt"
	"regexp"
	"strings"
)

var projectPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateProjectName ensures a project name is safe for use in URLs and
// log output. Names appear as path segments on the webhook receiver, so
// anything outside a conservative character set is rejected.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with '-' or '.'")
	}
	if !projectPattern.MatchString(name) {
		return fmt.Errorf("project name contains invalid characters (only a-z, A-Z, 0-9, _, - allowed)")
	}
	return nil
}
