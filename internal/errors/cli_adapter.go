package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
// A missing publish source always maps to 1: callers of `certdist publish`
// in build pipelines key on that exact status.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if cde, ok := err.(*CertDistError); ok {
		return a.exitCodeFromCertDist(cde)
	}

	return 1
}

// exitCodeFromCertDist maps CertDistError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCertDist(err *CertDistError) int {
	switch err.Category {
	case CategoryPublish:
		return 1 // Missing publish source
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryNotFound:
		return 4 // Lookup miss
	case CategoryAuth:
		return 5 // Auth error
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryRoster, CategoryEvents:
		return 8 // External data/system error
	case CategoryRender, CategoryFileSystem:
		return 11 // Generation/filesystem error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if cde, ok := err.(*CertDistError); ok {
		return a.formatCertDist(cde)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatCertDist formats a CertDistError for display.
func (a *CLIErrorAdapter) formatCertDist(err *CertDistError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation, CategoryAuth:
		return err.Message
	case CategoryPublish:
		// Surface the resolved path inline so pipeline logs show it without -v.
		if p, ok := err.Context["path"].(string); ok && p != "" {
			return fmt.Sprintf("%s: %s", err.Message, p)
		}
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if cde, ok := err.(*CertDistError); ok {
		return cde.Category == CategoryInternal ||
			cde.Category == CategoryRuntime
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if cde, ok := err.(*CertDistError); ok {
		attrs := []slog.Attr{
			slog.String("category", string(cde.Category)),
		}
		a.logger.LogAttrs(nil, slogLevelFromSeverity(cde.Severity), cde.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}
