// Package integration exercises the platform end to end: config loading,
// frontend publish, roster lookups, and the HTTP surface over real
// components and a real filesystem.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/config"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/issuance"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/httpserver"
)

// env is a fully wired platform instance rooted in a temp directory.
type env struct {
	Dir    string
	Cfg    *config.Config
	Roster *roster.Roster
	Gen    *certificate.Generator
	Log    *issuance.Log
	Server *httpserver.Server
}

// setupEnv builds a platform rooted in a temp directory with a small student
// roster and a built frontend waiting to be published.
func setupEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Paths.RosterCSV = filepath.Join(dir, "students.csv")
	cfg.Paths.ManagementCSV = filepath.Join(dir, "management.csv")
	cfg.Paths.TemplatesDir = filepath.Join(dir, "templates")
	cfg.Paths.CertificatesDir = filepath.Join(dir, "certificates")
	cfg.Paths.FrontendDist = filepath.Join(dir, "frontend", "dist")
	cfg.Paths.PublishDir = filepath.Join(dir, "dist")
	cfg.Server.Listen = "127.0.0.1:0"
	cfg.Server.AdminListen = ""

	writeFile(t, cfg.Paths.RosterCSV,
		"Name,Student_Id,Email,Course\nAda Lovelace,1001,ada@example.org,Go 101\nGrace Hopper,1002,grace@example.org,Go 101\n")
	writeFile(t, cfg.Paths.ManagementCSV,
		"Name,Mgmt_Id,Email,Position\nJean Bartik,M01,jean@example.org,Chair\n")
	writeFile(t, filepath.Join(cfg.Paths.FrontendDist, "index.html"), "<html>frontend</html>")
	writeFile(t, filepath.Join(cfg.Paths.FrontendDist, "assets", "app.js"), "console.log('app')")

	r := roster.New(cfg.Paths.RosterCSV, cfg.Paths.ManagementCSV, cfg.Certificate.IDPrefix)
	gen, err := certificate.NewGenerator(cfg.Certificate, cfg.Paths.TemplatesDir, cfg.Paths.CertificatesDir)
	require.NoError(t, err)

	log, err := issuance.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	srv := httpserver.New(cfg, httpserver.Options{
		Roster:    r,
		Generator: gen,
		Issuance:  log,
	})

	return &env{Dir: dir, Cfg: cfg, Roster: r, Gen: gen, Log: log, Server: srv}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
