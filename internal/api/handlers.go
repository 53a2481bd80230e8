package api

import (
	"context"
	"net/http"

	"sentinel/internal/adapters/config"
	"sentinel/internal/adapters/storage"
	"sentinel/internal/domain/document"
	"sentinel/internal/domain/vendor"
	"sentinel/internal/services/analysis"
	"sentinel/internal/services/assessmentstore"
	"sentinel/internal/services/extraction"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Handlers carries the service dependencies for all HTTP endpoints.
type Handlers struct {
	cfg         *config.Config
	vendors     vendor.Repository
	documents   document.Repository
	store       storage.Store
	extractor   *extraction.Extractor
	analyzer    *analysis.Analyzer
	synthesizer *analysis.Synthesizer
	assessments *assessmentstore.Store
	log         *logger.Logger
}

// NewHandlers wires the endpoint handlers.
func NewHandlers(
	cfg *config.Config,
	vendors vendor.Repository,
	documents document.Repository,
	store storage.Store,
	extractor *extraction.Extractor,
	analyzer *analysis.Analyzer,
	synthesizer *analysis.Synthesizer,
	assessments *assessmentstore.Store,
	log *logger.Logger,
) *Handlers {
	return &Handlers{
		cfg:         cfg,
		vendors:     vendors,
		documents:   documents,
		store:       store,
		extractor:   extractor,
		analyzer:    analyzer,
		synthesizer: synthesizer,
		assessments: assessments,
		log:         log.With("component", "api"),
	}
}

// findVendor resolves a vendor by record ID.
func (h *Handlers) findVendor(ctx context.Context, id string) (*vendor.Vendor, error) {
	vendors, err := h.vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vendors {
		if vendors[i].ID == id {
			return &vendors[i], nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "vendor %s", id)
}

func (h *Handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
		"status":  "running",
	})
}
