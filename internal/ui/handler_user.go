package ui

import (
	"net/http"
)

// getUserStats returns stats of a previously imported user
func (h *Handler) getUserStats(w http.ResponseWriter, r *http.Request) {
	login, ok := h.pathLogin(w, r)
	if !ok {
		return
	}

	stats, err := h.Store.GetUserStats(r.Context(), login)
	if err != nil {
		h.writeFromError(w, err)
		return
	}

	h.writeSuccess(w, stats)
}

// getRepositories returns repositories of a user ordered by stars
func (h *Handler) getRepositories(w http.ResponseWriter, r *http.Request) {
	login, ok := h.pathLogin(w, r)
	if !ok {
		return
	}

	limit := queryLimit(r, 50, 100)

	repos, err := h.Store.GetTopRepositories(r.Context(), login, limit)
	if err != nil {
		h.writeFromError(w, err)
		return
	}

	h.writeSuccess(w, map[string]interface{}{
		"repositories": repos,
		"count":        len(repos),
	})
}
