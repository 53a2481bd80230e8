package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"sentinel/internal/domain/document"
	"sentinel/internal/metrics"
	"sentinel/internal/security"
	"sentinel/pkg/errors"
)

var allowedDocumentTypes = map[string]bool{
	"SOC2":       true,
	"Pentest":    true,
	"Compliance": true,
	"Contract":   true,
	"Policy":     true,
	"Other":      true,
}

// handleUploadDocument accepts a multipart upload of one or more files and
// stores each as a document for later analysis. The response lists the created
// documents in upload order.
func (h *Handlers) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("id")

	v, err := h.findVendor(r.Context(), vendorID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	maxSize := h.cfg.Storage.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1024)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondError(w, r, errors.Wrap(errors.ErrFileTooLarge, "upload too large or malformed"))
		return
	}

	var parts []*multipart.FileHeader
	if r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			parts = append(parts, headers...)
		}
	}
	if len(parts) == 0 {
		respondError(w, r, errors.Wrap(errors.ErrInvalidInput, "no files in upload"))
		return
	}

	docType := r.FormValue("document_type")
	if docType == "" {
		docType = "Other"
	}
	if !allowedDocumentTypes[docType] {
		respondError(w, r, errors.Wrapf(errors.ErrInvalidInput, "invalid document type %q", docType))
		return
	}

	created := make([]*document.Document, 0, len(parts))
	for _, header := range parts {
		doc, err := h.saveUpload(r, v.ID, docType, header, maxSize)
		if err != nil {
			respondError(w, r, err)
			return
		}
		created = append(created, doc)
	}

	respondJSON(w, http.StatusCreated, created)
}

// saveUpload validates one multipart file, writes it to storage, and creates
// its document record.
func (h *Handlers) saveUpload(r *http.Request, vendorID, docType string, header *multipart.FileHeader, maxSize int64) (*document.Document, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "unreadable file part")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}

	ext, err := security.ValidateUpload(header.Filename, content, maxSize)
	if err != nil {
		metrics.DocumentUploads.WithLabelValues(strings.TrimPrefix(ext, "."), "rejected").Inc()
		return nil, err
	}
	fileType := strings.TrimPrefix(ext, ".")

	filename := security.SanitizeFilename(header.Filename)
	_, fileURL, err := h.store.Save(r.Context(), vendorID, filename, content)
	if err != nil {
		metrics.DocumentUploads.WithLabelValues(fileType, "error").Inc()
		return nil, err
	}

	doc, err := h.documents.Create(r.Context(), document.CreateInput{
		VendorID:     vendorID,
		Filename:     filename,
		FileType:     fileType,
		DocumentType: docType,
		FileSize:     int64(len(content)),
		FileURL:      fileURL,
	})
	if err != nil {
		metrics.DocumentUploads.WithLabelValues(fileType, "error").Inc()
		return nil, err
	}

	metrics.DocumentUploads.WithLabelValues(fileType, "success").Inc()
	h.log.Infow("Document uploaded", "document_id", doc.ID, "vendor_id", vendorID, "filename", filename, "size", len(content))
	return doc, nil
}

// handleListDocuments returns all documents for a vendor.
func (h *Handlers) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("id")

	if _, err := h.findVendor(r.Context(), vendorID); err != nil {
		respondError(w, r, err)
		return
	}

	docs, err := h.documents.ListByVendor(r.Context(), vendorID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleServeFile serves a stored upload back to the client.
func (h *Handlers) handleServeFile(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("vendor")
	name := r.PathValue("name")

	fileURL := strings.TrimSuffix(h.cfg.Storage.BaseURL, "/") + "/files/" + vendorID + "/" + name
	path, err := h.store.Path(r.Context(), fileURL)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, path)
}
