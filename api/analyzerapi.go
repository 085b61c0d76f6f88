// Package api cung cấp facade public để nhúng analyzer vào các entrypoint
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/githubapi"
	"github.com/thep200/github-analyzer/internal/graph"
	"github.com/thep200/github-analyzer/internal/importer"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/pkg/db"
	"github.com/thep200/github-analyzer/pkg/log"
)

// ImportStats chứa thống kê về lần import gần nhất
type ImportStats struct {
	IsRunning      bool      `json:"isRunning"`
	StartTime      time.Time `json:"startTime"`
	Duration       string    `json:"duration"`
	Login          string    `json:"login"`
	ReposImported  int       `json:"reposImported"`
	LanguagesFound int       `json:"languagesFound"`
	LastError      string    `json:"lastError"`
}

// AnalyzerAPI cung cấp các API để import và truy vấn dữ liệu GitHub
type AnalyzerAPI struct {
	ctx           context.Context
	config        *cfg.Config
	logger        log.Logger
	mysql         *db.Mysql
	neo4j         *db.Neo4j
	store         graph.Store
	importer      *importer.Importer
	runMd         *model.ImportRun
	importStatsMu sync.RWMutex
	importStats   *ImportStats
}

// NewAnalyzerAPI tạo một instance mới của AnalyzerAPI
func NewAnalyzerAPI() *AnalyzerAPI {
	return &AnalyzerAPI{
		importStats: &ImportStats{},
	}
}

// Initialize khởi tạo các thành phần cần thiết cho analyzer
func (a *AnalyzerAPI) Initialize(ctx context.Context) error {
	a.ctx = ctx

	var err error

	// Load configuration
	loader, _ := cfg.NewViperLoader()
	a.config, err = loader.Load()
	if err != nil {
		a.logger, _ = log.NewCslLogger()
		a.logger.Error(a.ctx, "Failed to load configuration: %v", err)
		return err
	}

	// Set up logger
	a.logger, err = log.NewCslLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	// Set up graph database
	a.neo4j, err = db.NewNeo4j(a.config)
	if err != nil {
		a.logger.Error(a.ctx, "Failed to create neo4j driver: %v", err)
		return fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	a.store, err = graph.NewNeo4jStore(a.logger, a.config, a.neo4j)
	if err != nil {
		return fmt.Errorf("failed to create graph store: %w", err)
	}

	if err := a.store.EnsureSchema(ctx); err != nil {
		a.logger.Error(a.ctx, "Failed to ensure graph schema: %v", err)
		return err
	}

	// Set up history database. Lịch sử là best effort nên lỗi kết nối
	// không chặn việc khởi tạo analyzer.
	a.mysql, err = db.NewMysql(a.config)
	if err != nil {
		a.logger.Warn(a.ctx, "Failed to create mysql connection: %v", err)
		a.mysql = nil
	}

	if a.mysql != nil {
		a.runMd, err = model.NewImportRun(a.config, a.logger, a.mysql)
		if err != nil {
			a.logger.Warn(a.ctx, "Failed to create import run model: %v", err)
			a.runMd = nil
		} else if err := a.mysql.Migrate(a.runMd); err != nil {
			a.logger.Warn(a.ctx, "Failed to migrate import history: %v", err)
			a.runMd = nil
		}
	}

	// Set up pipeline
	caller := githubapi.NewCaller(a.logger, a.config)
	a.importer, err = importer.NewImporter(a.logger, a.config, caller, a.store, a.runMd)
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}

	return nil
}

// Analyze import một user và trả về kết quả. Các lần gọi chồng nhau
// cho những login khác nhau chạy độc lập, thống kê chỉ giữ lần cuối.
func (a *AnalyzerAPI) Analyze(ctx context.Context, login string) (*importer.ImportSummary, error) {
	if a.importer == nil {
		return nil, errors.New("analyzer is not initialized")
	}

	startTime := time.Now()
	a.updateImportStats(func(stats *ImportStats) {
		stats.IsRunning = true
		stats.StartTime = startTime
		stats.Login = login
		stats.LastError = ""
	})

	summary, err := a.importer.ImportUser(ctx, login)

	a.updateImportStats(func(stats *ImportStats) {
		stats.IsRunning = false
		stats.Duration = time.Since(startTime).String()
		if err != nil {
			stats.LastError = err.Error()
			return
		}
		stats.ReposImported = summary.ReposImported
		stats.LanguagesFound = summary.LanguagesFound
	})

	return summary, err
}

// GetImportStats trả về thống kê về lần import gần nhất
func (a *AnalyzerAPI) GetImportStats() (*ImportStats, error) {
	a.importStatsMu.RLock()
	defer a.importStatsMu.RUnlock()

	if a.importStats == nil {
		return &ImportStats{}, nil
	}

	stats := *a.importStats
	if stats.IsRunning {
		stats.Duration = time.Since(stats.StartTime).String()
	}
	return &stats, nil
}

// updateImportStats cập nhật thống kê import một cách an toàn
func (a *AnalyzerAPI) updateImportStats(updateFn func(*ImportStats)) {
	a.importStatsMu.Lock()
	defer a.importStatsMu.Unlock()

	if a.importStats == nil {
		a.importStats = &ImportStats{}
	}

	updateFn(a.importStats)
}

// GetStoreStatus kiểm tra trạng thái kết nối graph database
func (a *AnalyzerAPI) GetStoreStatus(ctx context.Context) (string, error) {
	if a.neo4j == nil {
		return "Graph store not initialized", nil
	}

	if err := a.neo4j.Ping(ctx); err != nil {
		return "Graph store not connected: " + err.Error(), err
	}

	return "Graph store connected", nil
}

// Store trả về graph store đã khởi tạo
func (a *AnalyzerAPI) Store() graph.Store {
	return a.store
}

// Config trả về cấu hình đã load
func (a *AnalyzerAPI) Config() *cfg.Config {
	return a.config
}

// Logger trả về logger đã khởi tạo
func (a *AnalyzerAPI) Logger() log.Logger {
	return a.logger
}

// RunMd trả về model lịch sử import, có thể nil
func (a *AnalyzerAPI) RunMd() *model.ImportRun {
	return a.runMd
}

// Importer trả về pipeline import đã khởi tạo
func (a *AnalyzerAPI) Importer() *importer.Importer {
	return a.importer
}
