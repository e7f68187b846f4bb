package certificate

// Recipient is a single entry in a batch generation pass.
type Recipient struct {
	Name          string
	CertificateID string
	Management    bool
}

// BatchSummary reports the outcome of a batch generation pass.
type BatchSummary struct {
	Total        int      `json:"total"`
	Generated    int      `json:"generated"`
	Skipped      int      `json:"skipped"`
	GeneratedIDs []string `json:"generated_ids"`
	SkippedIDs   []string `json:"skipped_ids"`
	FailedIDs    []string `json:"failed_ids,omitempty"`
}

// BatchHooks receives per-recipient outcomes during a batch pass. Any hook
// may be nil.
type BatchHooks struct {
	OnGenerated func(r Recipient)
	OnSkipped   func(r Recipient)
	OnFailed    func(r Recipient, err error)
}

// GenerateBatch renders certificates for every recipient that does not
// already have one on disk. With force, existing certificates are
// re-rendered. A render failure is recorded and the pass continues with the
// remaining recipients.
func GenerateBatch(g *Generator, recipients []Recipient, force bool, hooks BatchHooks) BatchSummary {
	summary := BatchSummary{
		Total:        len(recipients),
		GeneratedIDs: []string{},
		SkippedIDs:   []string{},
	}

	for _, r := range recipients {
		if !force && g.Exists(r.CertificateID) {
			summary.Skipped++
			summary.SkippedIDs = append(summary.SkippedIDs, r.CertificateID)
			if hooks.OnSkipped != nil {
				hooks.OnSkipped(r)
			}
			continue
		}

		var err error
		if r.Management {
			_, err = g.GenerateManagement(r.Name, r.CertificateID)
		} else {
			_, err = g.Generate(r.Name, r.CertificateID)
		}
		if err != nil {
			summary.FailedIDs = append(summary.FailedIDs, r.CertificateID)
			if hooks.OnFailed != nil {
				hooks.OnFailed(r, err)
			}
			continue
		}

		summary.Generated++
		summary.GeneratedIDs = append(summary.GeneratedIDs, r.CertificateID)
		if hooks.OnGenerated != nil {
			hooks.OnGenerated(r)
		}
	}

	return summary
}
