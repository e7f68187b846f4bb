package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{}
	res, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.Equal(t, DefaultIDPrefix, cfg.Certificate.IDPrefix)
	assert.Equal(t, DefaultYRatio, cfg.Certificate.YRatio)
	assert.Equal(t, DefaultMinFontSize, cfg.Certificate.MinFontSize)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalizeRedefaultsEmptyTemplatePaths(t *testing.T) {
	cfg := Default()
	cfg.Certificate.Template = ""
	cfg.Certificate.ManagementTemplate = ""

	_, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Contains(t, cfg.Certificate.Template, "certificate_template.jpg")
	assert.Contains(t, cfg.Certificate.ManagementTemplate, "CertificateManagement.jpeg")
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"margin ratio too large", func(c *Config) { c.Certificate.MarginRatio = 0.75 }},
		{"negative margin px", func(c *Config) { c.Certificate.MarginPx = -1 }},
		{"y ratio out of range", func(c *Config) { c.Certificate.YRatio = 1.5 }},
		{"start below min", func(c *Config) {
			c.Certificate.StartFontSize = 10
			c.Certificate.MinFontSize = 20
		}},
		{"bad color", func(c *Config) { c.Certificate.NameColor = "red" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			_, err := Normalize(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	assert.NoError(t, validateHexColor("#000000"))
	assert.NoError(t, validateHexColor("#A1b2C3ff"))
	assert.NoError(t, validateHexColor(""))
	assert.Error(t, validateHexColor("000000"))
	assert.Error(t, validateHexColor("#12345"))
	assert.Error(t, validateHexColor("#zzzzzz"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins(" , ,"))
	assert.Equal(t, []string{"https://x"}, splitOrigins("https://x"))
	assert.Equal(t, []string{"a", "b"}, splitOrigins("a, b,"))
}
