package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/aggregator"
	"github.com/thep200/github-analyzer/internal/apperror"
	"github.com/thep200/github-analyzer/internal/graph"
	"github.com/thep200/github-analyzer/internal/importer"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/pkg/log"
)

// stubStore trả về dữ liệu cố định cho đường đọc và ghi nhận import
// cho đường ghi, đủ để test ánh xạ HTTP của handler.
type stubStore struct {
	stats     map[string]*graph.UserStats
	repos     map[string][]graph.RepoSummary
	popular   []graph.PopularLanguage
	imported  []string
	importErr error
}

func (s *stubStore) EnsureSchema(ctx context.Context) error { return nil }

func (s *stubStore) ImportUser(ctx context.Context, user *model.User, repos []model.Repo) error {
	if s.importErr != nil {
		return s.importErr
	}
	s.imported = append(s.imported, user.Login)
	if s.stats == nil {
		s.stats = map[string]*graph.UserStats{}
	}
	s.stats[user.Login] = &graph.UserStats{
		Username:      user.Login,
		Name:          user.Name,
		ReposAnalyzed: len(repos),
		LanguageStats: map[string]aggregator.Stat{},
	}
	return nil
}

func (s *stubStore) GetUserStats(ctx context.Context, login string) (*graph.UserStats, error) {
	stats, ok := s.stats[login]
	if !ok {
		return nil, fmt.Errorf("login %q: %w", login, apperror.ErrUserNotFound)
	}
	return stats, nil
}

func (s *stubStore) GetTopRepositories(ctx context.Context, login string, limit int) ([]graph.RepoSummary, error) {
	repos := s.repos[login]
	if limit > 0 && len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

func (s *stubStore) GetNetworkGraph(ctx context.Context, login string) (*graph.NetworkGraph, error) {
	if _, ok := s.stats[login]; !ok {
		return nil, fmt.Errorf("login %q: %w", login, apperror.ErrUserNotFound)
	}
	return &graph.NetworkGraph{
		Nodes: []graph.Node{{ID: "user:" + login, Label: login, Type: "user"}},
	}, nil
}

func (s *stubStore) GetPopularLanguages(ctx context.Context, limit int) ([]graph.PopularLanguage, error) {
	return s.popular, nil
}

// stubFetcher cấp dữ liệu GitHub cho pipeline trong test analyze
type stubFetcher struct {
	user  *model.User
	repos []model.Repo
	err   error
}

func (f *stubFetcher) FetchUser(ctx context.Context, login string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *stubFetcher) FetchRepos(ctx context.Context, login string) ([]model.Repo, error) {
	return f.repos, nil
}

func (f *stubFetcher) FetchLanguages(ctx context.Context, login, repo string) (map[string]int64, error) {
	return nil, nil
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
}

func testMux(t *testing.T, fetcher importer.Fetcher, store graph.Store) *http.ServeMux {
	t.Helper()

	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	logger, _ := log.NewCslLogger()

	imp, err := importer.NewImporter(logger, config, fetcher, store, nil)
	assert.NoError(t, err)

	handler, err := NewHandler(logger, config, imp, store, nil, nil)
	assert.NoError(t, err)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthCheck(t *testing.T) {
	mux := testMux(t, &stubFetcher{}, &stubStore{})

	rec, body := doRequest(t, mux, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "healthy", body.Data["status"])
}

func TestAnalyzeRejectsInvalidUsername(t *testing.T) {
	store := &stubStore{}
	mux := testMux(t, &stubFetcher{}, store)

	rec, body := doRequest(t, mux, http.MethodPost, "/api/analyze/-bad-")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "invalid github username")
	assert.Empty(t, store.imported)
}

func TestAnalyzeImportsAndReturnsStats(t *testing.T) {
	store := &stubStore{
		repos: map[string][]graph.RepoSummary{
			"octocat": {{Name: "Spoon-Knife", Stars: 10000}},
		},
	}
	fetcher := &stubFetcher{
		user: &model.User{Login: "octocat", Name: "The Octocat"},
		repos: []model.Repo{
			{Name: "Spoon-Knife", FullName: "octocat/Spoon-Knife", Stars: 10000},
		},
	}
	mux := testMux(t, fetcher, store)

	rec, body := doRequest(t, mux, http.MethodPost, "/api/analyze/octocat")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, []string{"octocat"}, store.imported)

	stats := body.Data["user_stats"].(map[string]interface{})
	assert.Equal(t, "octocat", stats["username"])
	assert.Len(t, body.Data["top_repositories"], 1)
}

func TestAnalyzeUnknownUserReturns404(t *testing.T) {
	fetcher := &stubFetcher{
		err: fmt.Errorf("github login %q: %w", "nobody", apperror.ErrUserNotFound),
	}
	mux := testMux(t, fetcher, &stubStore{})

	rec, body := doRequest(t, mux, http.MethodPost, "/api/analyze/nobody")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
}

func TestAnalyzeRateLimitSetsRetryAfter(t *testing.T) {
	fetcher := &stubFetcher{
		err: &apperror.RateLimitError{},
	}
	mux := testMux(t, fetcher, &stubStore{})

	rec, body := doRequest(t, mux, http.MethodPost, "/api/analyze/octocat")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, body.Success)
}

func TestAnalyzeAsyncWithoutProducer(t *testing.T) {
	mux := testMux(t, &stubFetcher{}, &stubStore{})

	rec, body := doRequest(t, mux, http.MethodPost, "/api/analyze/octocat?async=1")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, body.Success)
}

func TestGetUserStatsNotImported(t *testing.T) {
	mux := testMux(t, &stubFetcher{}, &stubStore{})

	rec, body := doRequest(t, mux, http.MethodGet, "/api/user/ghost/stats")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "ghost")
}

func TestGetUserStatsReturnsData(t *testing.T) {
	store := &stubStore{
		stats: map[string]*graph.UserStats{
			"octocat": {Username: "octocat", Name: "The Octocat", ReposAnalyzed: 8},
		},
	}
	mux := testMux(t, &stubFetcher{}, store)

	rec, body := doRequest(t, mux, http.MethodGet, "/api/user/octocat/stats")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "octocat", body.Data["username"])
	assert.Equal(t, float64(8), body.Data["repos_analyzed"])
}

func TestGetRepositoriesHonorsLimit(t *testing.T) {
	store := &stubStore{
		repos: map[string][]graph.RepoSummary{
			"octocat": {
				{Name: "a", Stars: 30},
				{Name: "b", Stars: 20},
				{Name: "c", Stars: 10},
			},
		},
	}
	mux := testMux(t, &stubFetcher{}, store)

	rec, body := doRequest(t, mux, http.MethodGet, "/api/user/octocat/repositories?limit=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, float64(2), body.Data["count"])
	assert.Len(t, body.Data["repositories"], 2)
}

func TestGetRepositoriesIgnoresBadLimit(t *testing.T) {
	store := &stubStore{
		repos: map[string][]graph.RepoSummary{
			"octocat": {{Name: "a"}},
		},
	}
	mux := testMux(t, &stubFetcher{}, store)

	rec, body := doRequest(t, mux, http.MethodGet, "/api/user/octocat/repositories?limit=banana")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body.Data["count"])
}

func TestGetNetworkGraph(t *testing.T) {
	store := &stubStore{
		stats: map[string]*graph.UserStats{
			"octocat": {Username: "octocat"},
		},
	}
	mux := testMux(t, &stubFetcher{}, store)

	rec, body := doRequest(t, mux, http.MethodGet, "/api/network/graph/octocat")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Len(t, body.Data["nodes"], 1)

	rec, body = doRequest(t, mux, http.MethodGet, "/api/network/graph/ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
}

func TestGetPopularLanguages(t *testing.T) {
	store := &stubStore{
		popular: []graph.PopularLanguage{
			{Language: "Go", RepoCount: 12, TotalBytes: 99000},
			{Language: "Python", RepoCount: 7, TotalBytes: 40000},
		},
	}
	mux := testMux(t, &stubFetcher{}, store)

	rec, body := doRequest(t, mux, http.MethodGet, "/api/languages/popular")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Len(t, body.Data["popular_languages"], 2)
}

func TestImportHistoryUnavailableWithoutLedger(t *testing.T) {
	mux := testMux(t, &stubFetcher{}, &stubStore{})

	rec, body := doRequest(t, mux, http.MethodGet, "/api/imports")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, body.Success)
}
