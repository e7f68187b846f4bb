package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// loadEnvFile loads environment variables from .env/.env.local files.
// It attempts each supported filename in order and stops at the first
// successfully parsed file. Existing process environment variables win.
func loadEnvFile() error {
	envPaths := []string{".env", ".env.local"}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return nil
		}
	}
	return fmt.Errorf("no .env file found")
}

// applyEnvOverrides applies the historical flat environment variable names on
// top of whatever the YAML config produced. These predate the config file and
// are kept so existing deployments keep working unchanged.
func applyEnvOverrides(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setFloat := func(dst *float64, key string) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&cfg.Paths.RosterCSV, "CSV_PATH")
	setString(&cfg.Paths.ManagementCSV, "MANAGEMENT_CSV_PATH")
	setString(&cfg.Paths.CertificatesDir, "CERTIFICATES_DIR")
	setString(&cfg.Certificate.Template, "CERTIFICATE_TEMPLATE_IMAGE")
	setString(&cfg.Server.AdminKey, "ADMIN_KEY")
	setString(&cfg.Certificate.IDPrefix, "CERTIFICATE_ID_PREFIX")
	setString(&cfg.Certificate.FontPath, "CERT_FONT_PATH")
	setString(&cfg.Certificate.NameColor, "CERT_NAME_COLOR")
	setFloat(&cfg.Certificate.MarginRatio, "CERT_NAME_MARGIN_RATIO")
	setInt(&cfg.Certificate.MarginPx, "CERT_NAME_MARGIN_PX")
	setFloat(&cfg.Certificate.YRatio, "CERT_NAME_Y_RATIO")
	setFloat(&cfg.Certificate.YOffset, "CERT_NAME_Y_OFFSET")
	setInt(&cfg.Certificate.StartFontSize, "CERT_NAME_FONT_SIZE")
	setInt(&cfg.Certificate.MinFontSize, "CERT_NAME_MIN_FONT_SIZE")

	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.Server.CORSAllowOrigins = splitOrigins(v)
	}
}
