package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Publish  PublishCmd  `cmd:"" help:"Publish the built frontend into the serving directory"`
	Serve    ServeCmd    `cmd:"" help:"Start the certificate distribution HTTP server"`
	Generate GenerateCmd `cmd:"" help:"Generate certificates for every roster entry"`
	Verify   VerifyCmd   `cmd:"" help:"Look a recipient up in the roster and print the result"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration, tolerating an absent file at the
// default location so the zero-setup commands keep working.
func loadConfig(root *CLI) (*config.Config, error) {
	return config.LoadOptional(root.Config, config.DefaultConfigPath)
}
