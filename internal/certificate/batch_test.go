package certificate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBatchSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	g := newTestGenerator(t, testConfig(writeTemplate(t, dir, 800, 600)), dir)

	_, err := g.Generate("Ada Lovelace", "CERT-1001")
	require.NoError(t, err)

	var generated, skipped []string
	summary := GenerateBatch(g, []Recipient{
		{Name: "Ada Lovelace", CertificateID: "CERT-1001"},
		{Name: "Grace Hopper", CertificateID: "CERT-1002"},
	}, false, BatchHooks{
		OnGenerated: func(r Recipient) { generated = append(generated, r.CertificateID) },
		OnSkipped:   func(r Recipient) { skipped = append(skipped, r.CertificateID) },
	})

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, []string{"CERT-1002"}, summary.GeneratedIDs)
	assert.Equal(t, []string{"CERT-1001"}, summary.SkippedIDs)
	assert.Equal(t, generated, summary.GeneratedIDs)
	assert.Equal(t, skipped, summary.SkippedIDs)
}

func TestGenerateBatchForceRegenerates(t *testing.T) {
	dir := t.TempDir()
	g := newTestGenerator(t, testConfig(writeTemplate(t, dir, 800, 600)), dir)

	_, err := g.Generate("Ada Lovelace", "CERT-1001")
	require.NoError(t, err)

	summary := GenerateBatch(g, []Recipient{
		{Name: "Ada Lovelace", CertificateID: "CERT-1001"},
	}, true, BatchHooks{})

	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 0, summary.Skipped)
}

func TestGenerateBatchContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	g := newTestGenerator(t, testConfig(writeTemplate(t, dir, 800, 600)), dir)

	var failed []string
	summary := GenerateBatch(g, []Recipient{
		{Name: "", CertificateID: "CERT-EMPTY"}, // empty name fails validation
		{Name: "Grace Hopper", CertificateID: "CERT-1002"},
	}, false, BatchHooks{
		OnFailed: func(r Recipient, err error) {
			require.Error(t, err)
			failed = append(failed, r.CertificateID)
		},
	})

	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, []string{"CERT-EMPTY"}, summary.FailedIDs)
	assert.Equal(t, failed, summary.FailedIDs)
}
