package api

import "net/http"

// handleAssessmentHistory returns all stored assessments for a vendor,
// newest first.
func (h *Handlers) handleAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("id")

	history, err := h.assessments.All(vendorID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// handleLatestAssessment returns the most recent assessment for a vendor.
func (h *Handlers) handleLatestAssessment(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("id")

	latest, err := h.assessments.Latest(vendorID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, latest)
}

// handleAssessmentSummary returns the condensed history with the risk trend.
func (h *Handlers) handleAssessmentSummary(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("id")

	summary, err := h.assessments.Summarize(vendorID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// handleDeleteAssessments removes a vendor's assessment history.
func (h *Handlers) handleDeleteAssessments(w http.ResponseWriter, r *http.Request) {
	vendorID := r.PathValue("id")

	if err := h.assessments.Delete(vendorID); err != nil {
		respondError(w, r, err)
		return
	}

	h.log.Infow("Assessment history deleted", "vendor_id", vendorID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "vendor_id": vendorID})
}
