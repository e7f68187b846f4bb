package commands

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/metrics"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
)

// GenerateCmd implements the 'generate' command: the CLI twin of the batch
// generation endpoint.
type GenerateCmd struct {
	Force      bool `short:"f" help:"Re-render certificates that already exist"`
	Management bool `short:"m" help:"Generate for the management roster instead of students"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	r := roster.New(cfg.Paths.RosterCSV, cfg.Paths.ManagementCSV, cfg.Certificate.IDPrefix)
	gen, err := certificate.NewGenerator(cfg.Certificate, cfg.Paths.TemplatesDir, cfg.Paths.CertificatesDir)
	if err != nil {
		return err
	}

	var summary certificate.BatchSummary
	if g.Management {
		summary, err = runManagementPass(r, gen, g.Force)
	} else {
		summary, err = runGeneratePass(r, gen, g.Force, nil)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// runGeneratePass renders a certificate for every student without one (all of
// them with force).
func runGeneratePass(r *roster.Roster, gen *certificate.Generator, force bool, rec metrics.Recorder) (certificate.BatchSummary, error) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	students, err := r.Students()
	if err != nil {
		return certificate.BatchSummary{}, err
	}

	recipients := make([]certificate.Recipient, 0, len(students))
	for _, s := range students {
		recipients = append(recipients, certificate.Recipient{
			Name:          s.Name,
			CertificateID: r.CertificateID(s.StudentID),
		})
	}
	return certificate.GenerateBatch(gen, recipients, force, batchHooks(rec)), nil
}

// runManagementPass is runGeneratePass for the management roster.
func runManagementPass(r *roster.Roster, gen *certificate.Generator, force bool) (certificate.BatchSummary, error) {
	members, err := r.Management()
	if err != nil {
		return certificate.BatchSummary{}, err
	}

	recipients := make([]certificate.Recipient, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, certificate.Recipient{
			Name:          m.Name,
			CertificateID: r.ManagementCertificateID(m.MemberID),
			Management:    true,
		})
	}
	return certificate.GenerateBatch(gen, recipients, force, batchHooks(metrics.NoopRecorder{})), nil
}

func batchHooks(rec metrics.Recorder) certificate.BatchHooks {
	return certificate.BatchHooks{
		OnGenerated: func(r certificate.Recipient) {
			rec.IncCertificateResult(recipientKind(r), metrics.ResultSuccess)
			slog.Info("Certificate generated", logfields.CertificateID(r.CertificateID))
		},
		OnSkipped: func(r certificate.Recipient) {
			rec.IncCertificateResult(recipientKind(r), metrics.ResultSkipped)
		},
		OnFailed: func(r certificate.Recipient, err error) {
			rec.IncCertificateResult(recipientKind(r), metrics.ResultFailed)
			slog.Warn("certificate generation failed",
				logfields.Name(r.Name),
				logfields.CertificateID(r.CertificateID),
				logfields.Error(err))
		},
	}
}

func recipientKind(r certificate.Recipient) metrics.Kind {
	if r.Management {
		return metrics.KindManagement
	}
	return metrics.KindStudent
}
