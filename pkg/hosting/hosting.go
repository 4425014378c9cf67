package hosting

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Hosting is the local configuration for one school's stundenplan24
// deployment. This is the credential/config collaborator - the client
// facade itself never touches the file system.
type Hosting struct {
	SchoolNumber string `yaml:"school_number"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	SessionToken string `yaml:"session_token,omitempty"`

	// BaseURL overrides the public stundenplan24.de host, for schools
	// hosting the Indiware exports themselves.
	BaseURL string `yaml:"base_url,omitempty"`
}

func Load(path string) (*Hosting, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var hosting Hosting
	if err := yaml.Unmarshal(contents, &hosting); err != nil {
		return nil, fmt.Errorf("parsing hosting file %s: %w", path, err)
	}

	if hosting.SchoolNumber == "" {
		return nil, fmt.Errorf("hosting file %s is missing school_number", path)
	}

	return &hosting, nil
}
