package api

import (
	"net/http"
	"strings"

	"sentinel/internal/domain/vendor"
	"sentinel/pkg/errors"
)

var (
	allowedCriticalities     = map[string]bool{"Low": true, "Medium": true, "High": true, "Critical": true}
	allowedDataSensitivities = map[string]bool{"Public": true, "Internal": true, "Confidential": true, "Restricted": true}
)

// handleListVendors returns all registered vendors.
func (h *Handlers) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, vendors)
}

// handleCreateVendor registers a new vendor.
func (h *Handlers) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var input vendor.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		respondError(w, r, errors.Wrap(errors.ErrInvalidInput, "vendor name is required"))
		return
	}
	if input.Criticality == "" {
		input.Criticality = "Medium"
	}
	if !allowedCriticalities[input.Criticality] {
		respondError(w, r, errors.Wrapf(errors.ErrInvalidInput, "invalid criticality %q", input.Criticality))
		return
	}
	if input.DataSensitivity != "" && !allowedDataSensitivities[input.DataSensitivity] {
		respondError(w, r, errors.Wrapf(errors.ErrInvalidInput, "invalid data sensitivity %q", input.DataSensitivity))
		return
	}
	if input.Spend < 0 {
		respondError(w, r, errors.Wrap(errors.ErrInvalidInput, "spend cannot be negative"))
		return
	}

	created, err := h.vendors.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.log.Infow("Vendor created", "vendor_id", created.ID, "name", created.Name)
	respondJSON(w, http.StatusCreated, created)
}
