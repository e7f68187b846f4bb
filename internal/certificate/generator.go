// Package certificate renders personalized PDF certificates from a template
// image. The recipient name is drawn centered at a configurable vertical
// position, with the font downsized dynamically so long names stay inside the
// margins. Rendered PDFs are cached on disk keyed by certificate ID.
package certificate

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/config"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
)

const fontFamily = "certname"

// Generator renders certificates into an on-disk cache directory.
type Generator struct {
	cfg          config.CertificateConfig
	templatesDir string
	outputDir    string
}

// NewGenerator creates a Generator and ensures the output directory exists.
func NewGenerator(cfg config.CertificateConfig, templatesDir, outputDir string) (*Generator, error) {
	if outputDir == "" {
		return nil, errors.New(errors.CategoryConfig, errors.SeverityFatal, "certificates output directory is not configured")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to create certificates directory").
			WithContext("path", outputDir)
	}
	return &Generator{cfg: cfg, templatesDir: templatesDir, outputDir: outputDir}, nil
}

// Generate renders a student certificate, returning the output path.
func (g *Generator) Generate(recipientName, certificateID string) (string, error) {
	return g.render(g.cfg.Template, recipientName, certificateID)
}

// GenerateManagement renders a management certificate from its own template.
func (g *Generator) GenerateManagement(recipientName, certificateID string) (string, error) {
	return g.render(g.cfg.ManagementTemplate, recipientName, certificateID)
}

// Exists reports whether a certificate PDF is already cached.
func (g *Generator) Exists(certificateID string) bool {
	_, err := os.Stat(g.Path(certificateID))
	return err == nil
}

// Path returns the on-disk location for a certificate ID.
func (g *Generator) Path(certificateID string) string {
	return filepath.Join(g.outputDir, certificateID+".pdf")
}

// Count returns the number of cached certificate PDFs.
func (g *Generator) Count() int {
	entries, err := os.ReadDir(g.outputDir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pdf") {
			n++
		}
	}
	return n
}

func (g *Generator) render(templatePath, recipientName, certificateID string) (string, error) {
	name := strings.Join(strings.Fields(recipientName), " ")
	if name == "" {
		return "", errors.ValidationError("recipient name is empty").
			WithContext("certificate_id", certificateID)
	}

	if _, err := os.Stat(templatePath); err != nil {
		return "", errors.TemplateMissing(templatePath)
	}

	fontPath, err := g.resolveFontPath()
	if err != nil {
		return "", err
	}

	pageW, pageH, err := templateSize(templatePath)
	if err != nil {
		return "", errors.RenderFailed(certificateID, err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.ImageOptions(templatePath, 0, 0, pageW, pageH, false,
		fpdf.ImageOptions{ReadDpi: false}, 0, "")

	pdf.AddUTF8Font(fontFamily, "", fontPath)

	r, gc, b := parseHexColor(g.cfg.NameColor)
	pdf.SetTextColor(r, gc, b)

	margin := pageW * g.cfg.MarginRatio
	if g.cfg.MarginPx > 0 {
		margin = float64(g.cfg.MarginPx)
	}
	maxTextWidth := pageW - 2*margin
	if maxTextWidth < 1 {
		maxTextWidth = 1
	}

	startSize := g.cfg.StartFontSize
	if startSize <= 0 {
		startSize = int(pageW * 0.06)
		if startSize < 24 {
			startSize = 24
		}
	}

	size := fitText(pdf, name, maxTextWidth, startSize, g.cfg.MinFontSize)
	pdf.SetFont(fontFamily, "", float64(size))
	name = truncateToFit(pdf, name, maxTextWidth)

	textW := pdf.GetStringWidth(name)
	x := (pageW - textW) / 2
	if x < margin {
		x = margin
	}
	if limit := pageW - margin - textW; x > limit {
		x = limit
	}

	// Text is placed by baseline; shift down by ~a third of the font size to
	// keep the visual center at the configured ratio.
	centerY := pageH*g.cfg.YRatio + g.cfg.YOffset
	y := centerY + float64(size)*0.35

	pdf.Text(x, y, name)

	if pdf.Err() {
		return "", errors.RenderFailed(certificateID, pdf.Error())
	}

	outputPath := g.Path(certificateID)
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", errors.RenderFailed(certificateID, err)
	}

	slog.Debug("rendered certificate",
		logfields.CertificateID(certificateID),
		logfields.Template(templatePath),
		logfields.Path(outputPath))
	return outputPath, nil
}

// templateSize decodes just the image header and maps pixels 1:1 to points.
func templateSize(path string) (w, h float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode template image %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("template image has invalid dimensions: %dx%d", cfg.Width, cfg.Height)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// parseHexColor parses #RRGGBB / #RRGGBBAA (alpha ignored). Invalid input
// falls back to black; config validation rejects bad values before this runs.
func parseHexColor(c string) (r, g, b int) {
	c = strings.TrimSpace(c)
	if !strings.HasPrefix(c, "#") || (len(c) != 7 && len(c) != 9) {
		return 0, 0, 0
	}
	var rr, gg, bb int
	if _, err := fmt.Sscanf(c[1:7], "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return 0, 0, 0
	}
	return rr, gg, bb
}
