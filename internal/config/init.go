package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Paths: PathsConfig{
			RosterCSV:       "students.csv",
			ManagementCSV:   "management.csv",
			TemplatesDir:    "templates",
			CertificatesDir: "certificates",
			FrontendDist:    "frontend/dist",
			PublishDir:      "dist",
		},
		Server: ServerConfig{
			Listen:           ":8000",
			AdminListen:      ":9090",
			AdminKey:         "${ADMIN_KEY}",
			CORSAllowOrigins: []string{"*"},
		},
		Certificate: CertificateConfig{
			IDPrefix:           "CERT",
			Template:           DefaultTemplate,
			ManagementTemplate: DefaultManagementTemplate,
			NameColor:          "#000000",
			MarginRatio:        0.12,
			YRatio:             0.62,
			MinFontSize:        14,
		},
		Issuance: IssuanceConfig{
			DBPath: "issuance.db",
		},
		Events: EventsConfig{
			SubjectPrefix: "certdist",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
