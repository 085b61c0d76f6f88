// Gói githubapi cung cấp một caller cho GitHub REST API, để lấy dữ liệu
// hồ sơ user, danh sách repository và phân bổ ngôn ngữ theo repository.
// Nó xử lý xác thực bằng mã thông báo truy cập nếu được cung cấp.
// Caller chịu trách nhiệm thực hiện yêu cầu API và ánh xạ lỗi
// (404 -> ErrUserNotFound, 403/429 -> RateLimitError, còn lại -> NetworkError)

package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/apperror"
	"github.com/thep200/github-analyzer/internal/limiter"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/pkg/log"
)

type Caller struct {
	Logger      log.Logger
	Config      *cfg.Config
	rateLimiter *limiter.RateLimiter
	client      *http.Client
}

func NewCaller(logger log.Logger, config *cfg.Config) *Caller {
	timeout := time.Duration(config.GithubApi.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Caller{
		Logger:      logger,
		Config:      config,
		rateLimiter: limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond),
		client:      &http.Client{Timeout: timeout},
	}
}

// rateLimitError xây dựng lỗi rate limit từ header phản hồi của API
func (c *Caller) rateLimitError(ctx context.Context, resp *http.Response) *apperror.RateLimitError {
	resetTimeStr := resp.Header.Get("X-RateLimit-Reset")
	resetTimeInt, err := strconv.ParseInt(resetTimeStr, 10, 64)
	if err != nil {
		// Nếu không thể parse được thời gian reset, sử dụng cấu hình mặc định
		fallback := time.Duration(c.Config.GithubApi.RateLimitResetMin) * time.Minute
		c.Logger.Warn(ctx, "Rate limit hit! Không thể xác định thời gian reset chính xác. Chờ %v phút", c.Config.GithubApi.RateLimitResetMin)
		return &apperror.RateLimitError{Reset: time.Now().Add(fallback)}
	}

	resetTime := time.Unix(resetTimeInt, 0)
	c.Logger.Warn(ctx, "Rate limit hit! GitHub API rate limit đạt ngưỡng. Cần chờ đến %v để tiếp tục", resetTime.Format(time.RFC3339))
	return &apperror.RateLimitError{Reset: resetTime}
}

// isRateLimited kiểm tra phản hồi có phải bị giới hạn quota hay không
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// doRequest thực hiện một request tới GitHub API, có retry một lần với lỗi 5xx.
// Caller phải đóng body của phản hồi trả về.
func (c *Caller) doRequest(ctx context.Context, op, fullUrl string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx, time.Duration(c.Config.GithubApi.ThrottleDelay)*time.Millisecond); err != nil {
		return nil, &apperror.NetworkError{Op: op, Err: err}
	}

	var resp *http.Response
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
		if err != nil {
			return nil, &apperror.NetworkError{Op: op, Err: err}
		}

		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("User-Agent", c.Config.App.Name+"/"+c.Config.App.Version)
		if c.Config.GithubApi.AccessToken != "" {
			req.Header.Set("Authorization", fmt.Sprintf("token %s", c.Config.GithubApi.AccessToken))
		}

		resp, err = c.client.Do(req)
		if err != nil {
			return nil, &apperror.NetworkError{Op: op, Err: err}
		}

		// Retry một lần duy nhất với lỗi 5xx tạm thời
		if resp.StatusCode >= 500 && attempt == 0 {
			resp.Body.Close()
			c.Logger.Warn(ctx, "GitHub API trả về %d cho %s, thử lại một lần", resp.StatusCode, op)
			continue
		}
		break
	}

	c.Logger.Debug(ctx, "Rate limit remaining: %s", resp.Header.Get("X-RateLimit-Remaining"))

	if isRateLimited(resp) {
		rateErr := c.rateLimitError(ctx, resp)
		resp.Body.Close()
		return nil, rateErr
	}

	return resp, nil
}

// FetchUser lấy hồ sơ công khai của một user theo login
func (c *Caller) FetchUser(ctx context.Context, login string) (*model.User, error) {
	fullUrl := strings.ReplaceAll(c.Config.GithubApi.UserApiUrl, "{user}", login)
	c.Logger.Info(ctx, "Calling GitHub API: %s", fullUrl)

	resp, err := c.doRequest(ctx, "fetch user", fullUrl)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("github login %q: %w", login, apperror.ErrUserNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperror.NetworkError{Op: "fetch user", Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	userResp := &UserResponse{}
	if err := json.NewDecoder(resp.Body).Decode(userResp); err != nil {
		return nil, &apperror.NetworkError{Op: "fetch user", Err: err}
	}

	return &model.User{
		Login:       userResp.Login,
		Name:        userResp.Name,
		Bio:         userResp.Bio,
		Location:    userResp.Location,
		Company:     userResp.Company,
		Blog:        userResp.Blog,
		Email:       userResp.Email,
		PublicRepos: userResp.PublicRepos,
		Followers:   userResp.Followers,
		Following:   userResp.Following,
		CreatedAt:   userResp.CreatedAt,
		UpdatedAt:   userResp.UpdatedAt,
		AvatarUrl:   userResp.AvatarUrl,
	}, nil
}

// FetchRepos lấy toàn bộ repository công khai của user.
// Danh sách được phân trang, dừng khi nhận được trang ngắn hơn PerPage.
func (c *Caller) FetchRepos(ctx context.Context, login string) ([]model.Repo, error) {
	perPage := c.Config.GithubApi.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	baseUrl := strings.ReplaceAll(c.Config.GithubApi.ReposApiUrl, "{user}", login)
	sep := "?"
	if strings.Contains(baseUrl, "?") {
		sep = "&"
	}

	repos := make([]model.Repo, 0, perPage)
	page := 1

	for {
		fullUrl := fmt.Sprintf("%s%stype=public&sort=updated&per_page=%d&page=%d", baseUrl, sep, perPage, page)
		c.Logger.Info(ctx, "Calling GitHub API: %s", fullUrl)

		resp, err := c.doRequest(ctx, "fetch repositories", fullUrl)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return nil, fmt.Errorf("github login %q: %w", login, apperror.ErrUserNotFound)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &apperror.NetworkError{Op: "fetch repositories", Err: fmt.Errorf("unexpected status: %s", resp.Status)}
		}

		var pageRepos []RepoResponse
		err = json.NewDecoder(resp.Body).Decode(&pageRepos)
		resp.Body.Close()
		if err != nil {
			return nil, &apperror.NetworkError{Op: "fetch repositories", Err: err}
		}

		for _, repo := range pageRepos {
			repos = append(repos, model.Repo{
				Name:        repo.Name,
				FullName:    repo.FullName,
				Description: repo.Description,
				Language:    repo.Language,
				Stars:       repo.StargazersCount,
				Forks:       repo.ForksCount,
				Watchers:    repo.WatchersCount,
				Size:        repo.Size,
				IsFork:      repo.Fork,
				IsPrivate:   repo.Private,
				CreatedAt:   repo.CreatedAt,
				UpdatedAt:   repo.UpdatedAt,
				PushedAt:    repo.PushedAt,
				CloneUrl:    repo.CloneUrl,
				HtmlUrl:     repo.HtmlUrl,
				Topics:      repo.Topics,
			})
		}

		// Trang ngắn hơn per_page nghĩa là đã hết dữ liệu
		if len(pageRepos) < perPage {
			break
		}
		page++
	}

	c.Logger.Info(ctx, "Fetched %d repositories for user %s", len(repos), login)
	return repos, nil
}

// FetchLanguages lấy phân bổ byte theo ngôn ngữ của một repository.
// Lỗi ở endpoint này không chặn import, caller có thể bỏ qua với map rỗng.
func (c *Caller) FetchLanguages(ctx context.Context, login, repo string) (map[string]int64, error) {
	fullUrl := strings.ReplaceAll(c.Config.GithubApi.LanguagesApiUrl, "{user}", login)
	fullUrl = strings.ReplaceAll(fullUrl, "{repo}", repo)

	resp, err := c.doRequest(ctx, "fetch languages", fullUrl)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Repo không còn tồn tại hoặc không truy cập được, coi như không có ngôn ngữ
	if resp.StatusCode == http.StatusNotFound {
		return map[string]int64{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperror.NetworkError{Op: "fetch languages", Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	languages := map[string]int64{}
	if err := json.NewDecoder(resp.Body).Decode(&languages); err != nil {
		return nil, &apperror.NetworkError{Op: "fetch languages", Err: err}
	}

	return languages, nil
}
