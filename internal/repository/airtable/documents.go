package airtable

import (
	"context"
	"time"

	"github.com/mehanizm/airtable"

	adapter "sentinel/internal/adapters/airtable"
	"sentinel/internal/domain/assessment"
	"sentinel/internal/domain/document"
	"sentinel/pkg/errors"
)

// DocumentRepo persists uploaded documents in Airtable. Findings and
// recommendations live in long-text columns as JSON arrays.
type DocumentRepo struct {
	client *adapter.Client
}

var _ document.Repository = (*DocumentRepo)(nil)

// NewDocumentRepo creates the document repository, or an in-memory mock when
// no Airtable client is configured.
func NewDocumentRepo(client *adapter.Client) document.Repository {
	if client == nil {
		return newMockDocumentRepo()
	}
	return &DocumentRepo{client: client}
}

// Create adds a new document record linked to its vendor.
func (r *DocumentRepo) Create(ctx context.Context, input document.CreateInput) (*document.Document, error) {
	fields := map[string]interface{}{
		"Filename":        input.Filename,
		"Vendor":          []string{input.VendorID},
		"File Type":       input.FileType,
		"Document Type":   input.DocumentType,
		"File Size":       input.FileSize,
		"File URL":        input.FileURL,
		"Upload Date":     time.Now().UTC().Format("2006-01-02"),
		"Analysis Status": document.StatusNotAnalyzed,
	}

	result, err := r.client.Documents().AddRecords(&airtable.Records{
		Records: []*airtable.Record{{Fields: fields}},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrRecordStore, err.Error())
	}
	if len(result.Records) == 0 {
		return nil, errors.Wrap(errors.ErrRecordStore, "no record returned on create")
	}

	d := documentFromRecord(result.Records[0])
	return &d, nil
}

// Get returns a single document by record ID.
func (r *DocumentRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	rec, err := r.client.Documents().GetRecord(id)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRecordStore, "get document %s: %v", id, err)
	}
	if rec == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}

	d := documentFromRecord(rec)
	return &d, nil
}

// ListByVendor returns all documents linked to the given vendor.
// Airtable link columns cannot be filtered server-side by record ID without a
// lookup field, so filtering happens here.
func (r *DocumentRepo) ListByVendor(ctx context.Context, vendorID string) ([]document.Document, error) {
	result, err := r.client.Documents().GetRecords().Do()
	if err != nil {
		return nil, errors.Wrap(errors.ErrRecordStore, err.Error())
	}

	docs := make([]document.Document, 0)
	for _, rec := range result.Records {
		d := documentFromRecord(rec)
		if d.VendorID == vendorID {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

// UpdateAnalysis marks a document completed and stores the assessment outcome.
func (r *DocumentRepo) UpdateAnalysis(ctx context.Context, id string, result assessment.DocumentAssessment) (*document.Document, error) {
	rec, err := r.client.Documents().GetRecord(id)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRecordStore, "get document %s: %v", id, err)
	}

	updated, err := rec.UpdateRecordPartial(map[string]interface{}{
		"Analysis Status": document.StatusCompleted,
		"Risk Score":      result.RiskScore,
		"Risk Level":      string(result.RiskLevel),
		"Findings":        encodeList(result.Findings),
		"Recommendations": encodeList(result.Recommendations),
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRecordStore, "update document %s: %v", id, err)
	}

	d := documentFromRecord(updated)
	return &d, nil
}
