package airtable

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sentinel/internal/domain/assessment"
	"sentinel/internal/domain/document"
	"sentinel/internal/domain/vendor"
	"sentinel/pkg/errors"
)

// mockVendorRepo is the in-memory fallback used when no Airtable credentials
// are configured. It ships with two seed vendors so the API is explorable
// out of the box.
type mockVendorRepo struct {
	mu      sync.RWMutex
	vendors []vendor.Vendor
}

func newMockVendorRepo() *mockVendorRepo {
	return &mockVendorRepo{
		vendors: []vendor.Vendor{
			{
				ID:              "recMock1",
				Name:            "Cloudflare",
				Website:         "https://cloudflare.com",
				Description:     "CDN and DDoS protection provider",
				Criticality:     "High",
				Spend:           50000,
				DataSensitivity: "Confidential",
			},
			{
				ID:              "recMock2",
				Name:            "Unknown SaaS Vendor",
				Website:         "https://example.com",
				Description:     "Niche analytics tool",
				Criticality:     "Medium",
				Spend:           5000,
				DataSensitivity: "Internal",
			},
		},
	}
}

func (r *mockVendorRepo) List(ctx context.Context) ([]vendor.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vendor.Vendor, len(r.vendors))
	copy(out, r.vendors)
	return out, nil
}

func (r *mockVendorRepo) Create(ctx context.Context, input vendor.CreateInput) (*vendor.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := vendor.Vendor{
		ID:              fmt.Sprintf("recMock%d", len(r.vendors)+1),
		Name:            input.Name,
		Website:         input.Website,
		Description:     input.Description,
		Criticality:     input.Criticality,
		Spend:           input.Spend,
		DataSensitivity: input.DataSensitivity,
	}
	r.vendors = append(r.vendors, v)
	return &v, nil
}

func (r *mockVendorRepo) UpdateRisk(ctx context.Context, id string, score int, level string, assessedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.vendors {
		if r.vendors[i].ID == id {
			s := score
			r.vendors[i].RiskScore = &s
			r.vendors[i].RiskLevel = level
			r.vendors[i].LastAssessed = assessedAt
			return nil
		}
	}
	return errors.Wrapf(errors.ErrNotFound, "vendor %s", id)
}

// mockDocumentRepo keeps documents in memory when Airtable is not configured.
type mockDocumentRepo struct {
	mu   sync.RWMutex
	seq  int
	docs map[string]document.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]document.Document)}
}

func (r *mockDocumentRepo) Create(ctx context.Context, input document.CreateInput) (*document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	d := document.Document{
		ID:             fmt.Sprintf("recDocMock%d", r.seq),
		VendorID:       input.VendorID,
		Filename:       input.Filename,
		FileType:       input.FileType,
		DocumentType:   input.DocumentType,
		FileSize:       input.FileSize,
		FileURL:        input.FileURL,
		UploadDate:     time.Now().UTC().Format("2006-01-02"),
		AnalysisStatus: document.StatusNotAnalyzed,
	}
	r.docs[d.ID] = d
	return &d, nil
}

func (r *mockDocumentRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}
	return &d, nil
}

func (r *mockDocumentRepo) ListByVendor(ctx context.Context, vendorID string) ([]document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]document.Document, 0)
	for _, d := range r.docs {
		if d.VendorID == vendorID {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (r *mockDocumentRepo) UpdateAnalysis(ctx context.Context, id string, result assessment.DocumentAssessment) (*document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}

	score := result.RiskScore
	d.AnalysisStatus = document.StatusCompleted
	d.RiskScore = &score
	d.RiskLevel = string(result.RiskLevel)
	d.Findings = result.Findings
	d.Recommendations = result.Recommendations
	r.docs[id] = d
	return &d, nil
}
