package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/apperror"
	"github.com/thep200/github-analyzer/internal/graph"
	"github.com/thep200/github-analyzer/internal/importer"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/pkg/kafka"
	"github.com/thep200/github-analyzer/pkg/log"
)

// Quy tắc login của GitHub: chữ và số, gạch nối ở giữa, tối đa 39 ký tự
var validLogin = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,37}[a-zA-Z0-9])?$`)

// Handler manages HTTP requests for the API and the static frontend
type Handler struct {
	Logger   log.Logger
	Config   *cfg.Config
	Importer *importer.Importer
	Store    graph.Store
	RunMd    *model.ImportRun // nil nếu không bật lịch sử import
	Producer *kafka.Producer  // nil nếu không bật hàng đợi analyze
	baseDir  string
}

// NewHandler creates a new API handler
func NewHandler(logger log.Logger, config *cfg.Config, imp *importer.Importer, store graph.Store, runMd *model.ImportRun, producer *kafka.Producer) (*Handler, error) {
	return &Handler{
		Logger:   logger,
		Config:   config,
		Importer: imp,
		Store:    store,
		RunMd:    runMd,
		Producer: producer,
		baseDir:  "internal/ui/static",
	}, nil
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Static file server for CSS, JS, etc.
	fileServer := http.FileServer(http.Dir(h.baseDir))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))

	// API routes
	mux.HandleFunc("POST /api/analyze/{username}", h.analyzeUser)
	mux.HandleFunc("GET /api/user/{username}/stats", h.getUserStats)
	mux.HandleFunc("GET /api/user/{username}/repositories", h.getRepositories)
	mux.HandleFunc("GET /api/network/graph/{username}", h.getNetworkGraph)
	mux.HandleFunc("GET /api/languages/popular", h.getPopularLanguages)
	mux.HandleFunc("GET /api/imports", h.getImportHistory)
	mux.HandleFunc("GET /api/health", h.healthCheck)

	// HTML routes
	mux.HandleFunc("/", h.showHomePage)
}

// showHomePage renders the main page
func (h *Handler) showHomePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	templatePath := filepath.Join(h.baseDir, "index.html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to parse template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, nil); err != nil {
		h.Logger.Error(r.Context(), "Failed to execute template: %v", err)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]interface{}{
		"status":  "healthy",
		"service": h.Config.App.Name,
		"version": h.Config.App.Version,
	})
}

// writeSuccess gửi phản hồi JSON theo envelope {success, data}
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// writeError gửi phản hồi JSON theo envelope {success: false, error}
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error(context.Background(), "Failed to encode JSON response: %v", err)
	}
}

// writeFromError ánh xạ lỗi của pipeline sang status code và envelope lỗi
func (h *Handler) writeFromError(w http.ResponseWriter, err error) {
	var rateErr *apperror.RateLimitError
	var netErr *apperror.NetworkError
	var storeErr *apperror.StoreError

	switch {
	case errors.Is(err, apperror.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &rateErr):
		if wait := rateErr.RetryAfter(); wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		}
		h.writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.As(err, &netErr):
		h.writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &storeErr):
		h.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathLogin lấy và validate login từ path, trả về lỗi đã ghi nếu không hợp lệ
func (h *Handler) pathLogin(w http.ResponseWriter, r *http.Request) (string, bool) {
	login := r.PathValue("username")
	if !validLogin.MatchString(login) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid github username: %q", login))
		return "", false
	}
	return login, true
}

// queryLimit đọc tham số limit với giá trị mặc định và trần cho phép
func queryLimit(r *http.Request, fallback, max int) int {
	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
