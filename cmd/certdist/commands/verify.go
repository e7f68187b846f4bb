package commands

import (
	"encoding/json"
	"os"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/responses"
)

// VerifyCmd implements the 'verify' command: a roster lookup from the shell.
type VerifyCmd struct {
	Name       string `arg:"" help:"Recipient name as it appears in the roster"`
	ID         string `arg:"" help:"Student (or management) ID"`
	Management bool   `short:"m" help:"Look the ID up in the management roster"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	r := roster.New(cfg.Paths.RosterCSV, cfg.Paths.ManagementCSV, cfg.Certificate.IDPrefix)
	gen, err := certificate.NewGenerator(cfg.Certificate, cfg.Paths.TemplatesDir, cfg.Paths.CertificatesDir)
	if err != nil {
		return err
	}

	var resp responses.VerifyResponse
	if v.Management {
		member, err := r.FindMember(v.Name, v.ID)
		if err != nil {
			return err
		}
		certID := r.ManagementCertificateID(member.MemberID)
		resp = responses.VerifyResponse{
			Valid:             true,
			Name:              member.Name,
			MemberID:          member.MemberID,
			Email:             member.Email,
			Position:          member.Position,
			CertificateID:     certID,
			CertificateExists: gen.Exists(certID),
		}
	} else {
		student, err := r.FindStudent(v.Name, v.ID)
		if err != nil {
			return err
		}
		certID := r.CertificateID(student.StudentID)
		resp = responses.VerifyResponse{
			Valid:             true,
			Name:              student.Name,
			StudentID:         student.StudentID,
			Email:             student.Email,
			Course:            student.Course,
			CertificateID:     certID,
			CertificateExists: gen.Exists(certID),
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
