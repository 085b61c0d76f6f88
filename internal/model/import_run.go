package model

import (
	"context"
	"time"

	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/pkg/db"
	"github.com/thep200/github-analyzer/pkg/log"
)

const (
	ImportStatusOk     = "ok"
	ImportStatusFailed = "failed"
)

// ImportRun là một dòng lịch sử cho mỗi lần import một user vào graph
type ImportRun struct {
	Model
	Login          string    `json:"login" gorm:"column:login;type:varchar(255);not null;index"`
	ReposAnalyzed  int       `json:"repos_analyzed" gorm:"column:repos_analyzed;default:0"`
	LanguagesFound int       `json:"languages_found" gorm:"column:languages_found;default:0"`
	Status         string    `json:"status" gorm:"column:status;type:varchar(32);not null"`
	Error          string    `json:"error" gorm:"column:error;type:varchar(1024)"`
	StartedAt      time.Time `json:"started_at" gorm:"column:started_at"`
	FinishedAt     time.Time `json:"finished_at" gorm:"column:finished_at"`
}

func NewImportRun(config *cfg.Config, logger log.Logger, db *db.Mysql) (*ImportRun, error) {
	run := &ImportRun{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return run, nil
}

func (r *ImportRun) TableName() string {
	return "import_runs"
}

func (r *ImportRun) Create(login string, reposAnalyzed, languagesFound int, status, errMsg string, startedAt, finishedAt time.Time) error {
	ctx := context.Background()

	newRun := &ImportRun{
		Login:          TruncateString(login, 250),
		ReposAnalyzed:  reposAnalyzed,
		LanguagesFound: languagesFound,
		Status:         status,
		Error:          TruncateString(errMsg, 1000),
		StartedAt:      startedAt,
		FinishedAt:     finishedAt,
	}

	db, err := r.Mysql.Db()
	if err != nil {
		r.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return err
	}

	if err := db.Create(newRun).Error; err != nil {
		r.Logger.Error(ctx, "Failed to create import run: %v", err)
		return err
	}

	return nil
}

// Recent trả về các lần import gần nhất, mới nhất trước
func (r *ImportRun) Recent(limit int) ([]ImportRun, error) {
	db, err := r.Mysql.Db()
	if err != nil {
		return nil, err
	}

	var runs []ImportRun
	result := db.Order("started_at DESC").Limit(limit).Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}
