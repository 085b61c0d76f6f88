// Gói importer là pipeline import một user GitHub vào graph:
// fetch hồ sơ và repository -> tính thống kê ngôn ngữ -> merge
// toàn bộ vào graph store trong một transaction. Nếu fetch hồ sơ
// thất bại thì dừng ngay, không có ghi một phần.

package importer

import (
	"context"
	"time"

	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/aggregator"
	"github.com/thep200/github-analyzer/internal/graph"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/pkg/log"
)

// Fetcher là phần GitHub client mà pipeline cần
type Fetcher interface {
	FetchUser(ctx context.Context, login string) (*model.User, error)
	FetchRepos(ctx context.Context, login string) ([]model.Repo, error)
	FetchLanguages(ctx context.Context, login, repo string) (map[string]int64, error)
}

// ImportSummary là kết quả của một lần import thành công
type ImportSummary struct {
	Login          string `json:"login"`
	ReposImported  int    `json:"repos_imported"`
	LanguagesFound int    `json:"languages_found"`
	Duration       string `json:"duration"`
}

type Importer struct {
	Logger  log.Logger
	Config  *cfg.Config
	Fetcher Fetcher
	Store   graph.Store
	RunMd   *model.ImportRun
}

// NewImporter tạo pipeline import. runMd có thể nil nếu không cần
// ghi lịch sử (ví dụ trong test).
func NewImporter(logger log.Logger, config *cfg.Config, fetcher Fetcher, store graph.Store, runMd *model.ImportRun) (*Importer, error) {
	return &Importer{
		Logger:  logger,
		Config:  config,
		Fetcher: fetcher,
		Store:   store,
		RunMd:   runMd,
	}, nil
}

// ImportUser chạy toàn bộ pipeline cho một login
func (i *Importer) ImportUser(ctx context.Context, login string) (*ImportSummary, error) {
	startTime := time.Now()
	i.Logger.Info(ctx, "Bắt đầu import dữ liệu GitHub cho user %s vào %s", login, startTime.Format(time.RFC3339))

	user, err := i.Fetcher.FetchUser(ctx, login)
	if err != nil {
		i.recordRun(ctx, login, 0, 0, model.ImportStatusFailed, err, startTime)
		return nil, err
	}

	repos, err := i.Fetcher.FetchRepos(ctx, login)
	if err != nil {
		i.recordRun(ctx, login, 0, 0, model.ImportStatusFailed, err, startTime)
		return nil, err
	}

	// Lấy phân bổ ngôn ngữ cho các repo không phải fork. Lỗi ở một
	// repo không chặn cả lần import, repo đó chỉ không có edge ngôn ngữ.
	for idx := range repos {
		if repos[idx].IsFork {
			continue
		}
		languages, err := i.Fetcher.FetchLanguages(ctx, user.Login, repos[idx].Name)
		if err != nil {
			i.Logger.Warn(ctx, "Không thể lấy dữ liệu ngôn ngữ cho %s: %v", repos[idx].FullName, err)
			continue
		}
		repos[idx].Languages = languages
	}

	stats := aggregator.Aggregate(repos, aggregator.Options{})

	if err := i.Store.ImportUser(ctx, user, repos); err != nil {
		i.recordRun(ctx, login, len(repos), len(stats), model.ImportStatusFailed, err, startTime)
		return nil, err
	}

	duration := time.Since(startTime)
	i.recordRun(ctx, login, len(repos), len(stats), model.ImportStatusOk, nil, startTime)

	i.Logger.Info(ctx, "==== KẾT QUẢ IMPORT ====")
	i.Logger.Info(ctx, "User: %s", user.Login)
	i.Logger.Info(ctx, "Tổng số repository đã import: %d", len(repos))
	i.Logger.Info(ctx, "Tổng số ngôn ngữ tìm thấy: %d", len(stats))
	i.Logger.Info(ctx, "Tổng thời gian thực hiện: %v", duration)

	return &ImportSummary{
		Login:          user.Login,
		ReposImported:  len(repos),
		LanguagesFound: len(stats),
		Duration:       duration.String(),
	}, nil
}

// recordRun ghi một dòng lịch sử import. Best effort, lỗi chỉ được log.
func (i *Importer) recordRun(ctx context.Context, login string, repos, languages int, status string, runErr error, startedAt time.Time) {
	if i.RunMd == nil {
		return
	}

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}

	if err := i.RunMd.Create(login, repos, languages, status, errMsg, startedAt, time.Now()); err != nil {
		i.Logger.Warn(ctx, "Không thể ghi lịch sử import cho %s: %v", login, err)
	}
}
