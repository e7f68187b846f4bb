// Package landing renders the HTML landing page served at the API root.
//
// When a Markdown page exists next to the certificate templates it is
// rendered with Goldmark; otherwise a small built-in page is served so the
// root endpoint never 404s.
package landing

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
)

const (
	// PageFile is the Markdown file looked up inside the templates directory.
	PageFile = "index.md"
	// IndexFile is a static HTML page that takes precedence over PageFile.
	IndexFile = "index.html"
)

// Page is a rendered landing page ready to be written to an HTTP response.
type Page struct {
	HTML []byte
}

// Load renders the landing page for the given templates directory.
//
// A missing or unreadable index.md falls back to the built-in page; a
// Markdown render failure is returned to the caller.
func Load(templatesDir, serviceName string) (*Page, error) {
	src, err := os.ReadFile(filepath.Join(templatesDir, PageFile))
	if err != nil {
		return &Page{HTML: fallbackPage(serviceName)}, nil
	}

	md := goldmark.New()
	var body bytes.Buffer
	if err := md.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("render landing page: %w", err)
	}
	return &Page{HTML: wrapHTML(serviceName, body.Bytes())}, nil
}

func wrapHTML(title string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	buf.WriteString("<style>body{font-family:sans-serif;max-width:42rem;margin:3rem auto;padding:0 1rem;line-height:1.5}</style>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes()
}

func fallbackPage(serviceName string) []byte {
	md := []byte(fmt.Sprintf("# %s\n\nCertificate distribution service.\n\n- `GET /health` service health\n- `GET /verify?student_id=...` roster lookup\n- `GET /certificate?student_id=...` certificate download\n", serviceName))
	var body bytes.Buffer
	// The built-in page is static and known-good Markdown.
	_ = goldmark.New().Convert(md, &body)
	return wrapHTML(serviceName, body.Bytes())
}
