package config

import (
	"fmt"
	"strings"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
)

// NormalizeResult carries non-fatal findings from the normalization pass.
type NormalizeResult struct {
	Warnings []string
}

// Normalize resolves paths to absolute form, fills defaulted values, and
// validates the configuration. It mutates cfg in place and returns warnings
// for values it had to adjust.
func Normalize(cfg *Config) (*NormalizeResult, error) {
	res := &NormalizeResult{}

	// Config files written without template paths must not lose the built-in
	// ones: yaml unmarshals explicit empty strings over the defaults.
	if cfg.Certificate.Template == "" {
		cfg.Certificate.Template = DefaultTemplate
		res.Warnings = append(res.Warnings, "certificate.template defaulted to "+DefaultTemplate)
	}
	if cfg.Certificate.ManagementTemplate == "" {
		cfg.Certificate.ManagementTemplate = DefaultManagementTemplate
		res.Warnings = append(res.Warnings, "certificate.management_template defaulted to "+DefaultManagementTemplate)
	}

	for _, p := range []struct {
		name string
		dst  *string
	}{
		{"paths.roster_csv", &cfg.Paths.RosterCSV},
		{"paths.management_csv", &cfg.Paths.ManagementCSV},
		{"paths.templates_dir", &cfg.Paths.TemplatesDir},
		{"paths.certificates_dir", &cfg.Paths.CertificatesDir},
		{"paths.frontend_dist", &cfg.Paths.FrontendDist},
		{"paths.publish_dir", &cfg.Paths.PublishDir},
		{"certificate.template", &cfg.Certificate.Template},
		{"certificate.management_template", &cfg.Certificate.ManagementTemplate},
		{"certificate.font_path", &cfg.Certificate.FontPath},
	} {
		abs, err := resolveAbs(*p.dst)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "invalid path").
				WithContext("field", p.name)
		}
		if abs != *p.dst && abs != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s resolved to %s", p.name, abs))
		}
		*p.dst = abs
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
		res.Warnings = append(res.Warnings, "server.listen defaulted to "+DefaultListen)
	}
	if len(cfg.Server.CORSAllowOrigins) == 0 {
		cfg.Server.CORSAllowOrigins = []string{"*"}
	}

	if cfg.Certificate.IDPrefix == "" {
		cfg.Certificate.IDPrefix = DefaultIDPrefix
		res.Warnings = append(res.Warnings, "certificate.id_prefix defaulted to "+DefaultIDPrefix)
	}
	if cfg.Certificate.MarginRatio < 0 || cfg.Certificate.MarginRatio >= 0.5 {
		return nil, errors.ValidationFailed("certificate.margin_ratio", "must be in [0, 0.5)")
	}
	if cfg.Certificate.MarginPx < 0 {
		return nil, errors.ValidationFailed("certificate.margin_px", "must be >= 0")
	}
	if cfg.Certificate.YRatio <= 0 || cfg.Certificate.YRatio >= 1 {
		if cfg.Certificate.YRatio == 0 {
			cfg.Certificate.YRatio = DefaultYRatio
		} else {
			return nil, errors.ValidationFailed("certificate.y_ratio", "must be in (0, 1)")
		}
	}
	if cfg.Certificate.StartFontSize < 0 || cfg.Certificate.MinFontSize < 0 {
		return nil, errors.ValidationFailed("certificate.font_size", "font sizes must be >= 0")
	}
	if cfg.Certificate.MinFontSize == 0 {
		cfg.Certificate.MinFontSize = DefaultMinFontSize
	}
	if cfg.Certificate.StartFontSize > 0 && cfg.Certificate.StartFontSize < cfg.Certificate.MinFontSize {
		return nil, errors.ValidationFailed("certificate.start_font_size", "must be >= min_font_size")
	}
	if err := validateHexColor(cfg.Certificate.NameColor); err != nil {
		return nil, errors.ValidationFailed("certificate.name_color", err.Error())
	}

	if cfg.Events.NATSURL != "" && cfg.Events.SubjectPrefix == "" {
		cfg.Events.SubjectPrefix = DefaultSubjectPrefix
		res.Warnings = append(res.Warnings, "events.subject_prefix defaulted to "+DefaultSubjectPrefix)
	}

	return res, nil
}

// validateHexColor accepts #RRGGBB and #RRGGBBAA.
func validateHexColor(c string) error {
	c = strings.TrimSpace(c)
	if c == "" {
		return nil
	}
	if !strings.HasPrefix(c, "#") || (len(c) != 7 && len(c) != 9) {
		return fmt.Errorf("expected #RRGGBB or #RRGGBBAA, got %q", c)
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("invalid hex digit %q", r)
		}
	}
	return nil
}

// splitOrigins parses a comma-separated origin list, dropping empties.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
