package ui

import (
	"net/http"
	"time"

	"github.com/thep200/github-analyzer/internal/model"
)

// analyzeUser chạy pipeline import cho một login và trả về dữ liệu
// tổng hợp. Với ?async=1, yêu cầu được đẩy vào hàng đợi Kafka và
// consumer sẽ import sau.
func (h *Handler) analyzeUser(w http.ResponseWriter, r *http.Request) {
	login, ok := h.pathLogin(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	if r.URL.Query().Get("async") == "1" {
		if h.Producer == nil {
			h.writeError(w, http.StatusServiceUnavailable, "analyze queue is not enabled")
			return
		}

		msg := model.AnalyzeMessage{
			Login:       login,
			RequestedAt: time.Now(),
		}
		if err := h.Producer.Publish(ctx, "analyze", msg); err != nil {
			h.Logger.Error(ctx, "Failed to queue analyze request for %s: %v", login, err)
			h.writeError(w, http.StatusInternalServerError, "failed to queue analyze request")
			return
		}

		h.writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"login":  login,
				"queued": true,
			},
		})
		return
	}

	h.Logger.Info(ctx, "Starting analysis for user: %s", login)

	if _, err := h.Importer.ImportUser(ctx, login); err != nil {
		h.Logger.Error(ctx, "Analysis failed for user %s: %v", login, err)
		h.writeFromError(w, err)
		return
	}

	// Đọc lại dữ liệu đã import để trả về cho frontend
	stats, err := h.Store.GetUserStats(ctx, login)
	if err != nil {
		h.writeFromError(w, err)
		return
	}

	topRepos, err := h.Store.GetTopRepositories(ctx, login, 10)
	if err != nil {
		h.writeFromError(w, err)
		return
	}

	h.Logger.Info(ctx, "Analysis completed for user: %s", login)
	h.writeSuccess(w, map[string]interface{}{
		"user_stats":       stats,
		"top_repositories": topRepos,
	})
}
