package ui

import (
	"net/http"
)

// getImportHistory returns recent import runs from the history ledger
func (h *Handler) getImportHistory(w http.ResponseWriter, r *http.Request) {
	if h.RunMd == nil {
		h.writeError(w, http.StatusServiceUnavailable, "import history is not enabled")
		return
	}

	limit := queryLimit(r, 20, 100)

	runs, err := h.RunMd.Recent(limit)
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch import history: %v", err)
		h.writeError(w, http.StatusInternalServerError, "failed to fetch import history")
		return
	}

	h.writeSuccess(w, map[string]interface{}{
		"imports": runs,
		"count":   len(runs),
	})
}
