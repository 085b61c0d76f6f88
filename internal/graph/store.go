// Gói graph chứa tầng lưu trữ property graph của hệ thống.
// Schema cố định ba loại node (User, Repo, Language) và hai loại
// edge (OWNS, USES_LANGUAGE). Mọi thao tác ghi là merge idempotent
// theo khóa, import lại cùng một user không tạo node/edge trùng lặp.
// Repository đã bị xóa khỏi tài khoản giữa hai lần import vẫn được
// giữ lại trong graph, không có đường prune.

package graph

import (
	"context"

	"github.com/thep200/github-analyzer/internal/aggregator"
	"github.com/thep200/github-analyzer/internal/model"
)

// Store là giao diện của graph database. Phần ghi là một transaction
// duy nhất cho mỗi lần import, phần đọc độc lập với đường ghi.
type Store interface {
	EnsureSchema(ctx context.Context) error
	ImportUser(ctx context.Context, user *model.User, repos []model.Repo) error
	GetUserStats(ctx context.Context, login string) (*UserStats, error)
	GetTopRepositories(ctx context.Context, login string, limit int) ([]RepoSummary, error)
	GetNetworkGraph(ctx context.Context, login string) (*NetworkGraph, error)
	GetPopularLanguages(ctx context.Context, limit int) ([]PopularLanguage, error)
}

// UserStats là dữ liệu tổng hợp của một user đã import
type UserStats struct {
	Username        string                     `json:"username"`
	Name            string                     `json:"name"`
	Bio             string                     `json:"bio"`
	AvatarUrl       string                     `json:"avatar_url"`
	Followers       int                        `json:"followers"`
	Following       int                        `json:"following"`
	TotalReposGithub int                       `json:"total_repos_github"`
	ReposAnalyzed   int                        `json:"repos_analyzed"`
	LanguageStats   map[string]aggregator.Stat `json:"language_stats"`
}

// RepoSummary là một repository trong danh sách xếp hạng theo sao
type RepoSummary struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Url         string `json:"url"`
}

// Node và Edge là projection của graph cho phần hiển thị
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Stars int    `json:"stars,omitempty"`
}

type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight,omitempty"`
}

type NetworkGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// PopularLanguage là một ngôn ngữ xếp hạng theo số repository toàn graph
type PopularLanguage struct {
	Language   string `json:"language"`
	RepoCount  int    `json:"repo_count"`
	TotalBytes int64  `json:"total_bytes"`
}
