package document

import (
	"context"

	"sentinel/internal/domain/assessment"
)

// Analysis status values for a stored document.
const (
	StatusNotAnalyzed = "Not Analyzed"
	StatusAnalyzing   = "Analyzing"
	StatusCompleted   = "Completed"
)

// Document is an uploaded supporting document attached to a vendor.
type Document struct {
	ID              string   `json:"id"`
	VendorID        string   `json:"vendor_id"`
	Filename        string   `json:"filename"`
	FileType        string   `json:"file_type"`     // pdf, docx, txt
	DocumentType    string   `json:"document_type"` // SOC2, Pentest, Compliance, ...
	FileSize        int64    `json:"file_size"`
	FileURL         string   `json:"file_url"`
	UploadDate      string   `json:"upload_date"`
	AnalysisStatus  string   `json:"analysis_status"`
	RiskScore       *int     `json:"risk_score,omitempty"`
	RiskLevel       string   `json:"risk_level,omitempty"`
	Findings        []string `json:"findings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// CreateInput carries the fields for a new document record.
type CreateInput struct {
	VendorID     string
	Filename     string
	FileType     string
	DocumentType string
	FileSize     int64
	FileURL      string
}

// Repository is the record-store gateway for documents.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	ListByVendor(ctx context.Context, vendorID string) ([]Document, error)
	UpdateAnalysis(ctx context.Context, id string, result assessment.DocumentAssessment) (*Document, error)
}
