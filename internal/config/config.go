package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Server      ServerConfig      `yaml:"server"`
	Certificate CertificateConfig `yaml:"certificate"`
	Issuance    IssuanceConfig    `yaml:"issuance"`
	Events      EventsConfig      `yaml:"events"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
}

// PathsConfig holds the filesystem layout. All paths are resolved to absolute
// form against the working directory during normalization.
type PathsConfig struct {
	RosterCSV       string `yaml:"roster_csv"`
	ManagementCSV   string `yaml:"management_csv"`
	TemplatesDir    string `yaml:"templates_dir"`
	CertificatesDir string `yaml:"certificates_dir"`
	FrontendDist    string `yaml:"frontend_dist"`
	PublishDir      string `yaml:"publish_dir"`
}

// ServerConfig holds HTTP listener configuration.
type ServerConfig struct {
	Listen           string   `yaml:"listen"`
	AdminListen      string   `yaml:"admin_listen"` // empty disables the admin listener
	AdminKey         string   `yaml:"admin_key"`    // empty disables the generate-all guard
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
}

// CertificateConfig controls certificate rendering.
type CertificateConfig struct {
	IDPrefix           string  `yaml:"id_prefix"`
	Template           string  `yaml:"template"`
	ManagementTemplate string  `yaml:"management_template"`
	FontPath           string  `yaml:"font_path"`
	NameColor          string  `yaml:"name_color"`
	MarginRatio        float64 `yaml:"margin_ratio"`
	MarginPx           int     `yaml:"margin_px"` // overrides margin_ratio when > 0
	YRatio             float64 `yaml:"y_ratio"`
	YOffset            float64 `yaml:"y_offset"`
	StartFontSize      int     `yaml:"start_font_size"` // 0 means derive from template width
	MinFontSize        int     `yaml:"min_font_size"`
}

// IssuanceConfig controls the SQLite issuance log.
type IssuanceConfig struct {
	DBPath string `yaml:"db_path"` // empty disables the log
}

// EventsConfig controls the optional NATS event publisher.
type EventsConfig struct {
	NATSURL       string `yaml:"nats_url"` // empty disables publishing
	SubjectPrefix string `yaml:"subject_prefix"`
}

// ScheduleConfig controls periodic batch generation in serve mode.
type ScheduleConfig struct {
	GenerateCron string `yaml:"generate_cron"` // empty disables
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	cfg := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(configPath)
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if _, err := Normalize(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOptional behaves like Load but tolerates a missing config file at the
// default location, falling back to pure defaults + env. An explicitly given
// path that does not exist is still an error.
func LoadOptional(configPath, defaultPath string) (*Config, error) {
	if configPath == defaultPath {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = ""
		}
	}
	return Load(configPath)
}

// resolveAbs resolves a possibly-relative path against the working directory.
// Backslash separators are tolerated: roster CSVs and template paths have
// historically been configured with Windows-style paths.
func resolveAbs(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", p, err)
	}
	return abs, nil
}
