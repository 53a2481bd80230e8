package airtable

import (
	"context"
	"testing"

	"github.com/mehanizm/airtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/domain/assessment"
	"sentinel/internal/domain/document"
	"sentinel/internal/domain/vendor"
	"sentinel/pkg/errors"
)

func TestVendorFromRecord(t *testing.T) {
	rec := &airtable.Record{
		ID: "recABC123",
		Fields: map[string]interface{}{
			"Name":             "Cloudflare",
			"Website":          "https://cloudflare.com",
			"Criticality":      "High",
			"Spend":            float64(50000),
			"Data Sensitivity": "Confidential",
			"Risk Score":       float64(42),
			"Risk Level":       "Medium",
			"Last Assessed":    "2026-08-01",
		},
	}

	v := vendorFromRecord(rec)
	assert.Equal(t, "recABC123", v.ID)
	assert.Equal(t, "Cloudflare", v.Name)
	assert.Equal(t, "High", v.Criticality)
	assert.Equal(t, float64(50000), v.Spend)
	require.NotNil(t, v.RiskScore)
	assert.Equal(t, 42, *v.RiskScore)
	assert.Equal(t, "2026-08-01", v.LastAssessed)
}

func TestVendorFromRecord_MissingOptionalFields(t *testing.T) {
	rec := &airtable.Record{
		ID:     "recXYZ",
		Fields: map[string]interface{}{"Name": "Minimal Vendor"},
	}

	v := vendorFromRecord(rec)
	assert.Equal(t, "Minimal Vendor", v.Name)
	assert.Nil(t, v.RiskScore)
	assert.Empty(t, v.RiskLevel)
}

func TestDocumentFromRecord(t *testing.T) {
	rec := &airtable.Record{
		ID: "recDoc1",
		Fields: map[string]interface{}{
			"Filename":        "soc2.pdf",
			"Vendor":          []interface{}{"recVendor1"},
			"File Type":       "pdf",
			"Document Type":   "SOC2",
			"File Size":       float64(204800),
			"File URL":        "http://localhost:8080/files/recVendor1/abc.pdf",
			"Upload Date":     "2026-08-15",
			"Analysis Status": "Completed",
			"Risk Score":      float64(35),
			"Risk Level":      "Low",
			"Findings":        `["Finding one","Finding two"]`,
			"Recommendations": `["Do the thing"]`,
		},
	}

	d := documentFromRecord(rec)
	assert.Equal(t, "recVendor1", d.VendorID)
	assert.Equal(t, "pdf", d.FileType)
	assert.Equal(t, int64(204800), d.FileSize)
	assert.Equal(t, "Completed", d.AnalysisStatus)
	require.NotNil(t, d.RiskScore)
	assert.Equal(t, 35, *d.RiskScore)
	assert.Equal(t, []string{"Finding one", "Finding two"}, d.Findings)
	assert.Equal(t, []string{"Do the thing"}, d.Recommendations)
}

func TestDocumentFromRecord_Defaults(t *testing.T) {
	rec := &airtable.Record{
		ID: "recDoc2",
		Fields: map[string]interface{}{
			"Filename": "policy.txt",
			"Findings": "not valid json",
		},
	}

	d := documentFromRecord(rec)
	assert.Equal(t, document.StatusNotAnalyzed, d.AnalysisStatus)
	assert.Nil(t, d.Findings)
	assert.Empty(t, d.VendorID)
}

func TestEncodeList(t *testing.T) {
	assert.Equal(t, `["a","b"]`, encodeList([]string{"a", "b"}))
	assert.Equal(t, `[]`, encodeList(nil))
}

func TestMockVendorRepo(t *testing.T) {
	repo := newMockVendorRepo()
	ctx := context.Background()

	vendors, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Cloudflare", vendors[0].Name)

	created, err := repo.Create(ctx, vendor.CreateInput{Name: "Acme Corp", Criticality: "Low"})
	require.NoError(t, err)
	assert.Equal(t, "recMock3", created.ID)

	require.NoError(t, repo.UpdateRisk(ctx, created.ID, 55, "Medium", "2026-08-30"))
	vendors, err = repo.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, vendors[2].RiskScore)
	assert.Equal(t, 55, *vendors[2].RiskScore)

	err = repo.UpdateRisk(ctx, "recMissing", 10, "Low", "2026-08-30")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestMockDocumentRepo(t *testing.T) {
	repo := newMockDocumentRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, document.CreateInput{
		VendorID:     "recMock1",
		Filename:     "pentest.pdf",
		FileType:     "pdf",
		DocumentType: "Pentest",
		FileSize:     1024,
	})
	require.NoError(t, err)
	assert.Equal(t, document.StatusNotAnalyzed, created.AnalysisStatus)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pentest.pdf", got.Filename)

	updated, err := repo.UpdateAnalysis(ctx, created.ID, assessment.DocumentAssessment{
		RiskScore:       62,
		RiskLevel:       assessment.RiskMedium,
		Findings:        []string{"Open critical vulnerability"},
		Recommendations: []string{"Patch within 30 days"},
	})
	require.NoError(t, err)
	assert.Equal(t, document.StatusCompleted, updated.AnalysisStatus)
	require.NotNil(t, updated.RiskScore)
	assert.Equal(t, 62, *updated.RiskScore)

	docs, err := repo.ListByVendor(ctx, "recMock1")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = repo.Get(ctx, "recDocMissing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
