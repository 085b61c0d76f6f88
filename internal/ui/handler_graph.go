package ui

import (
	"net/http"
)

// getNetworkGraph returns the node/edge projection for visualization
func (h *Handler) getNetworkGraph(w http.ResponseWriter, r *http.Request) {
	login, ok := h.pathLogin(w, r)
	if !ok {
		return
	}

	networkGraph, err := h.Store.GetNetworkGraph(r.Context(), login)
	if err != nil {
		h.writeFromError(w, err)
		return
	}

	h.writeSuccess(w, networkGraph)
}

// getPopularLanguages returns the most used languages across all users
func (h *Handler) getPopularLanguages(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 100)

	languages, err := h.Store.GetPopularLanguages(r.Context(), limit)
	if err != nil {
		h.writeFromError(w, err)
		return
	}

	h.writeSuccess(w, map[string]interface{}{
		"popular_languages": languages,
	})
}
