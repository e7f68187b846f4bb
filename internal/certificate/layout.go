package certificate

import (
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
)

const ellipsis = "\u2026"

// resolveFontPath locates a TTF/OTF font for name rendering. Order: the
// configured font path, bundled fonts under the templates directory, then
// common system locations.
func (g *Generator) resolveFontPath() (string, error) {
	if g.cfg.FontPath != "" {
		if isFile(g.cfg.FontPath) {
			return g.cfg.FontPath, nil
		}
		return "", errors.FontMissing(g.cfg.FontPath)
	}

	candidates := []string{
		filepath.Join(g.templatesDir, "DejaVuSans-Bold.ttf"),
		filepath.Join(g.templatesDir, "DejaVuSans.ttf"),
		filepath.Join(g.templatesDir, "fonts", "DejaVuSans-Bold.ttf"),
		filepath.Join(g.templatesDir, "fonts", "DejaVuSans.ttf"),
		// Common Linux paths
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/freefont/FreeSansBold.ttf",
		"/usr/share/fonts/truetype/freefont/FreeSans.ttf",
		// Common Windows paths
		"C:/Windows/Fonts/arialbd.ttf",
		"C:/Windows/Fonts/arial.ttf",
	}
	for _, c := range candidates {
		if isFile(c) {
			return c, nil
		}
	}

	return "", errors.New(errors.CategoryRender, errors.SeverityFatal,
		"no TrueType/OpenType font found; set certificate.font_path (or CERT_FONT_PATH)")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// fitText downsizes from startSize in steps of 2 until the text fits within
// maxWidth, bottoming out at minSize. The caller truncates if even minSize
// overflows.
func fitText(pdf *fpdf.Fpdf, text string, maxWidth float64, startSize, minSize int) int {
	if minSize < 1 {
		minSize = 1
	}
	for size := startSize; size >= minSize; size -= 2 {
		pdf.SetFont(fontFamily, "", float64(size))
		if pdf.GetStringWidth(text) <= maxWidth {
			return size
		}
	}
	return minSize
}

// truncateToFit trims the text with a trailing ellipsis until it fits within
// maxWidth at the currently selected font, using binary search over the cut
// point. Assumes SetFont was already called.
func truncateToFit(pdf *fpdf.Fpdf, text string, maxWidth float64) string {
	if pdf.GetStringWidth(text) <= maxWidth {
		return text
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	best := ""
	for lo <= hi {
		mid := (lo + hi) / 2
		candidate := text
		if mid < len(runes) {
			candidate = trimTrailingSpace(string(runes[:mid])) + ellipsis
		}
		if pdf.GetStringWidth(candidate) <= maxWidth {
			best = candidate
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best == "" {
		return ellipsis
	}
	return best
}

func trimTrailingSpace(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
