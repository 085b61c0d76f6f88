package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/apperror"
	"github.com/thep200/github-analyzer/pkg/log"
)

func testCaller(t *testing.T, baseURL string) *Caller {
	t.Helper()

	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	config.GithubApi.UserApiUrl = baseURL + "/users/{user}"
	config.GithubApi.ReposApiUrl = baseURL + "/users/{user}/repos"
	config.GithubApi.LanguagesApiUrl = baseURL + "/repos/{user}/{repo}/languages"
	config.GithubApi.PerPage = 2
	config.GithubApi.RequestsPerSecond = 1000
	config.GithubApi.ThrottleDelay = 1

	logger, _ := log.NewCslLogger()
	return NewCaller(logger, config)
}

func TestFetchUserMapsProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","public_repos":8,"followers":100,"following":9,"avatar_url":"https://example.com/a.png"}`)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	user, err := caller.FetchUser(context.Background(), "octocat")

	assert.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "The Octocat", user.Name)
	assert.Equal(t, 8, user.PublicRepos)
	assert.Equal(t, 100, user.Followers)
}

func TestFetchUserSendsTokenWhenConfigured(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	caller.Config.GithubApi.AccessToken = "ghp_secret"

	_, err := caller.FetchUser(context.Background(), "octocat")
	assert.NoError(t, err)
	assert.Equal(t, "token ghp_secret", gotAuth)
}

func TestFetchUserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	_, err := caller.FetchUser(context.Background(), "no-such-user-xyz")

	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestFetchUserRateLimited(t *testing.T) {
	reset := time.Now().Add(10 * time.Minute).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	_, err := caller.FetchUser(context.Background(), "octocat")

	var rateErr *apperror.RateLimitError
	assert.ErrorAs(t, err, &rateErr)
	assert.Equal(t, reset, rateErr.Reset.Unix())
}

func TestFetchUserRetriesOnServerError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	user, err := caller.FetchUser(context.Background(), "octocat")

	assert.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, 2, requests)
}

func TestFetchReposStopsAfterEmptyPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Query().Get("page") {
		case "1":
			// Đúng một trang đầy, per_page = 2
			fmt.Fprint(w, `[{"name":"a","full_name":"octocat/a","stargazers_count":1},{"name":"b","full_name":"octocat/b","stargazers_count":2}]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	repos, err := caller.FetchRepos(context.Background(), "octocat")

	assert.NoError(t, err)
	assert.Len(t, repos, 2)
	assert.Equal(t, 2, requests)
}

func TestFetchReposStopsAfterShortPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `[{"name":"only","full_name":"octocat/only","language":"Go","fork":true}]`)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	repos, err := caller.FetchRepos(context.Background(), "octocat")

	assert.NoError(t, err)
	assert.Len(t, repos, 1)
	assert.Equal(t, 1, requests)
	assert.Equal(t, "Go", repos[0].Language)
	assert.True(t, repos[0].IsFork)
}

func TestFetchLanguagesReturnsBreakdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello/languages", r.URL.Path)
		fmt.Fprint(w, `{"Go":12345,"Makefile":200}`)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	languages, err := caller.FetchLanguages(context.Background(), "octocat", "hello")

	assert.NoError(t, err)
	assert.Equal(t, map[string]int64{"Go": 12345, "Makefile": 200}, languages)
}

func TestFetchLanguagesMissingRepoIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	caller := testCaller(t, server.URL)
	languages, err := caller.FetchLanguages(context.Background(), "octocat", "gone")

	assert.NoError(t, err)
	assert.Empty(t, languages)
}
