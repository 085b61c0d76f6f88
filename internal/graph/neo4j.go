package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/aggregator"
	"github.com/thep200/github-analyzer/internal/apperror"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/pkg/db"
	"github.com/thep200/github-analyzer/pkg/log"
)

// Neo4jStore triển khai Store trên Neo4j qua bolt driver
type Neo4jStore struct {
	Logger log.Logger
	Config *cfg.Config
	Neo4j  *db.Neo4j
}

func NewNeo4jStore(logger log.Logger, config *cfg.Config, neo *db.Neo4j) (*Neo4jStore, error) {
	return &Neo4jStore{
		Logger: logger,
		Config: config,
		Neo4j:  neo,
	}, nil
}

// EnsureSchema tạo các ràng buộc duy nhất cho ba loại node
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT user_login IF NOT EXISTS FOR (u:User) REQUIRE u.login IS UNIQUE",
		"CREATE CONSTRAINT repo_full_name IF NOT EXISTS FOR (r:Repo) REQUIRE r.full_name IS UNIQUE",
		"CREATE CONSTRAINT language_name IF NOT EXISTS FOR (l:Language) REQUIRE l.name IS UNIQUE",
	}

	session, err := s.Neo4j.Session(ctx, neo4j.AccessModeWrite)
	if err != nil {
		return &apperror.StoreError{Op: "ensure schema", Err: err}
	}
	defer session.Close(ctx)

	for _, constraint := range constraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil {
			return &apperror.StoreError{Op: "ensure schema", Err: err}
		}
	}
	return nil
}

const mergeUserCypher = `
MERGE (u:User {login: $login})
SET u.name = $name,
    u.bio = $bio,
    u.location = $location,
    u.company = $company,
    u.blog = $blog,
    u.email = $email,
    u.public_repos = $public_repos,
    u.followers = $followers,
    u.following = $following,
    u.created_at = $created_at,
    u.updated_at = $updated_at,
    u.avatar_url = $avatar_url,
    u.last_analyzed = datetime()
`

const mergeRepoCypher = `
MATCH (u:User {login: $login})
MERGE (r:Repo {full_name: $full_name})
SET r.name = $name,
    r.description = $description,
    r.language = $language,
    r.stars = $stars,
    r.forks = $forks,
    r.watchers = $watchers,
    r.size = $size,
    r.is_fork = $is_fork,
    r.is_private = $is_private,
    r.created_at = $created_at,
    r.updated_at = $updated_at,
    r.pushed_at = $pushed_at,
    r.clone_url = $clone_url,
    r.html_url = $html_url,
    r.topics = $topics
MERGE (u)-[:OWNS]->(r)
`

const mergeLanguageCypher = `
MATCH (r:Repo {full_name: $full_name})
MERGE (l:Language {name: $language})
MERGE (r)-[rel:USES_LANGUAGE]->(l)
SET rel.bytes = $bytes,
    rel.percentage = $percentage
`

// ImportUser merge user, toàn bộ repository và edge ngôn ngữ trong
// một transaction duy nhất. Chạy lại với cùng dữ liệu cho kết quả
// giống hệt: thuộc tính bị ghi đè tại chỗ, không có gì được append.
func (s *Neo4jStore) ImportUser(ctx context.Context, user *model.User, repos []model.Repo) error {
	session, err := s.Neo4j.Session(ctx, neo4j.AccessModeWrite)
	if err != nil {
		return &apperror.StoreError{Op: "import user", Err: err}
	}
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, mergeUserCypher, map[string]any{
			"login":        user.Login,
			"name":         user.Name,
			"bio":          user.Bio,
			"location":     user.Location,
			"company":      user.Company,
			"blog":         user.Blog,
			"email":        user.Email,
			"public_repos": user.PublicRepos,
			"followers":    user.Followers,
			"following":    user.Following,
			"created_at":   user.CreatedAt,
			"updated_at":   user.UpdatedAt,
			"avatar_url":   user.AvatarUrl,
		}); err != nil {
			return nil, err
		}

		for _, repo := range repos {
			topics := repo.Topics
			if topics == nil {
				topics = []string{}
			}
			if _, err := tx.Run(ctx, mergeRepoCypher, map[string]any{
				"login":       user.Login,
				"full_name":   repo.FullName,
				"name":        repo.Name,
				"description": repo.Description,
				"language":    repo.Language,
				"stars":       repo.Stars,
				"forks":       repo.Forks,
				"watchers":    repo.Watchers,
				"size":        repo.Size,
				"is_fork":     repo.IsFork,
				"is_private":  repo.IsPrivate,
				"created_at":  repo.CreatedAt,
				"updated_at":  repo.UpdatedAt,
				"pushed_at":   repo.PushedAt,
				"clone_url":   repo.CloneUrl,
				"html_url":    repo.HtmlUrl,
				"topics":      topics,
			}); err != nil {
				return nil, err
			}

			var totalBytes int64
			for _, bytes := range repo.Languages {
				totalBytes += bytes
			}

			for lang, bytes := range repo.Languages {
				percentage := 0.0
				if totalBytes > 0 {
					percentage = float64(bytes) / float64(totalBytes) * 100
				}
				if _, err := tx.Run(ctx, mergeLanguageCypher, map[string]any{
					"full_name":  repo.FullName,
					"language":   lang,
					"bytes":      bytes,
					"percentage": percentage,
				}); err != nil {
					return nil, err
				}
			}
		}

		return nil, nil
	})
	if err != nil {
		return &apperror.StoreError{Op: "import user", Err: err}
	}

	s.Logger.Info(ctx, "Imported %d repositories for user %s into graph", len(repos), user.Login)
	return nil
}

const userStatsCypher = `
MATCH (u:User {login: $login})
OPTIONAL MATCH (u)-[:OWNS]->(r:Repo)
OPTIONAL MATCH (r)-[rel:USES_LANGUAGE]->(l:Language)
RETURN u.login AS login,
       u.name AS name,
       u.bio AS bio,
       u.avatar_url AS avatar_url,
       u.followers AS followers,
       u.following AS following,
       u.public_repos AS public_repos,
       count(DISTINCT r) AS repos_analyzed,
       collect(DISTINCT {language: l.name, bytes: rel.bytes, repo: r.full_name}) AS languages
`

func (s *Neo4jStore) GetUserStats(ctx context.Context, login string) (*UserStats, error) {
	session, err := s.Neo4j.Session(ctx, neo4j.AccessModeRead)
	if err != nil {
		return nil, &apperror.StoreError{Op: "get user stats", Err: err}
	}
	defer session.Close(ctx)

	record, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, userStatsCypher, map[string]any{"login": login})
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			return result.Record(), nil
		}
		return nil, result.Err()
	})
	if err != nil {
		return nil, &apperror.StoreError{Op: "get user stats", Err: err}
	}
	if record == nil {
		return nil, fmt.Errorf("login %q: %w", login, apperror.ErrUserNotFound)
	}

	rec := record.(*neo4j.Record)
	stats := &UserStats{
		Username:         recordString(rec, "login"),
		Name:             recordString(rec, "name"),
		Bio:              recordString(rec, "bio"),
		AvatarUrl:        recordString(rec, "avatar_url"),
		Followers:        int(recordInt(rec, "followers")),
		Following:        int(recordInt(rec, "following")),
		TotalReposGithub: int(recordInt(rec, "public_repos")),
		ReposAnalyzed:    int(recordInt(rec, "repos_analyzed")),
		LanguageStats:    map[string]aggregator.Stat{},
	}

	// Mỗi entry là một cặp (repo, language) duy nhất nên đếm entry
	// theo ngôn ngữ cho ra số repository dùng ngôn ngữ đó
	if raw, ok := rec.Get("languages"); ok {
		if entries, ok := raw.([]any); ok {
			for _, entry := range entries {
				m, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				lang, ok := m["language"].(string)
				if !ok || lang == "" {
					continue
				}
				stat := stats.LanguageStats[lang]
				stat.RepoCount++
				if bytes, ok := m["bytes"].(int64); ok {
					stat.TotalBytes += bytes
				}
				stats.LanguageStats[lang] = stat
			}
		}
	}

	return stats, nil
}

const topRepositoriesCypher = `
MATCH (u:User {login: $login})-[:OWNS]->(r:Repo)
WHERE NOT r.is_fork
RETURN r.name AS name,
       r.full_name AS full_name,
       r.description AS description,
       r.language AS language,
       r.stars AS stars,
       r.forks AS forks,
       r.html_url AS url
ORDER BY r.stars DESC
LIMIT $limit
`

func (s *Neo4jStore) GetTopRepositories(ctx context.Context, login string, limit int) ([]RepoSummary, error) {
	session, err := s.Neo4j.Session(ctx, neo4j.AccessModeRead)
	if err != nil {
		return nil, &apperror.StoreError{Op: "get repositories", Err: err}
	}
	defer session.Close(ctx)

	repos, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, topRepositoriesCypher, map[string]any{
			"login": login,
			"limit": int64(limit),
		})
		if err != nil {
			return nil, err
		}

		var repos []RepoSummary
		for result.Next(ctx) {
			rec := result.Record()
			repos = append(repos, RepoSummary{
				Name:        recordString(rec, "name"),
				FullName:    recordString(rec, "full_name"),
				Description: recordString(rec, "description"),
				Language:    recordString(rec, "language"),
				Stars:       int(recordInt(rec, "stars")),
				Forks:       int(recordInt(rec, "forks")),
				Url:         recordString(rec, "url"),
			})
		}
		return repos, result.Err()
	})
	if err != nil {
		return nil, &apperror.StoreError{Op: "get repositories", Err: err}
	}

	return repos.([]RepoSummary), nil
}

const networkGraphCypher = `
MATCH (u:User {login: $login})
OPTIONAL MATCH (u)-[:OWNS]->(r:Repo)
OPTIONAL MATCH (r)-[rel:USES_LANGUAGE]->(l:Language)
RETURN u.login AS login,
       collect(DISTINCT {id: r.full_name, label: r.name, stars: r.stars}) AS repos,
       collect(DISTINCT l.name) AS languages,
       collect(DISTINCT {source: r.full_name, target: l.name, weight: rel.percentage}) AS uses
`

// GetNetworkGraph trả về projection hai bước từ user: toàn bộ node
// Repo và Language liên quan cùng các edge nối chúng. User có repo
// nhưng chưa có edge ngôn ngữ vẫn cho ra node user và repo.
func (s *Neo4jStore) GetNetworkGraph(ctx context.Context, login string) (*NetworkGraph, error) {
	session, err := s.Neo4j.Session(ctx, neo4j.AccessModeRead)
	if err != nil {
		return nil, &apperror.StoreError{Op: "get network graph", Err: err}
	}
	defer session.Close(ctx)

	record, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, networkGraphCypher, map[string]any{"login": login})
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			return result.Record(), nil
		}
		return nil, result.Err()
	})
	if err != nil {
		return nil, &apperror.StoreError{Op: "get network graph", Err: err}
	}
	if record == nil {
		return nil, fmt.Errorf("login %q: %w", login, apperror.ErrUserNotFound)
	}

	rec := record.(*neo4j.Record)
	userLogin := recordString(rec, "login")

	networkGraph := &NetworkGraph{
		Nodes: []Node{{ID: userLogin, Label: userLogin, Type: "user"}},
		Edges: []Edge{},
	}

	// OPTIONAL MATCH có thể sinh entry toàn null, lọc bỏ ở đây
	if raw, ok := rec.Get("repos"); ok {
		if entries, ok := raw.([]any); ok {
			for _, entry := range entries {
				m, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				id, ok := m["id"].(string)
				if !ok || id == "" {
					continue
				}
				label, _ := m["label"].(string)
				stars, _ := m["stars"].(int64)
				networkGraph.Nodes = append(networkGraph.Nodes, Node{
					ID:    id,
					Label: label,
					Type:  "repo",
					Stars: int(stars),
				})
				networkGraph.Edges = append(networkGraph.Edges, Edge{
					Source: userLogin,
					Target: id,
					Type:   "owns",
				})
			}
		}
	}

	if raw, ok := rec.Get("languages"); ok {
		if entries, ok := raw.([]any); ok {
			for _, entry := range entries {
				name, ok := entry.(string)
				if !ok || name == "" {
					continue
				}
				networkGraph.Nodes = append(networkGraph.Nodes, Node{
					ID:    name,
					Label: name,
					Type:  "language",
				})
			}
		}
	}

	if raw, ok := rec.Get("uses"); ok {
		if entries, ok := raw.([]any); ok {
			for _, entry := range entries {
				m, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				source, ok := m["source"].(string)
				if !ok || source == "" {
					continue
				}
				target, ok := m["target"].(string)
				if !ok || target == "" {
					continue
				}
				weight, _ := m["weight"].(float64)
				networkGraph.Edges = append(networkGraph.Edges, Edge{
					Source: source,
					Target: target,
					Type:   "uses_language",
					Weight: weight,
				})
			}
		}
	}

	return networkGraph, nil
}

const popularLanguagesCypher = `
MATCH (l:Language)<-[rel:USES_LANGUAGE]-(r:Repo)
WITH l.name AS language, count(r) AS repo_count, sum(rel.bytes) AS total_bytes
ORDER BY repo_count DESC, language ASC
LIMIT $limit
RETURN language, repo_count, total_bytes
`

// GetPopularLanguages xếp hạng ngôn ngữ trên toàn graph, qua mọi user
func (s *Neo4jStore) GetPopularLanguages(ctx context.Context, limit int) ([]PopularLanguage, error) {
	session, err := s.Neo4j.Session(ctx, neo4j.AccessModeRead)
	if err != nil {
		return nil, &apperror.StoreError{Op: "get popular languages", Err: err}
	}
	defer session.Close(ctx)

	languages, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, popularLanguagesCypher, map[string]any{"limit": int64(limit)})
		if err != nil {
			return nil, err
		}

		var languages []PopularLanguage
		for result.Next(ctx) {
			rec := result.Record()
			languages = append(languages, PopularLanguage{
				Language:   recordString(rec, "language"),
				RepoCount:  int(recordInt(rec, "repo_count")),
				TotalBytes: recordInt(rec, "total_bytes"),
			})
		}
		return languages, result.Err()
	})
	if err != nil {
		return nil, &apperror.StoreError{Op: "get popular languages", Err: err}
	}

	return languages.([]PopularLanguage), nil
}

func recordString(record *neo4j.Record, key string) string {
	if value, ok := record.Get(key); ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

func recordInt(record *neo4j.Record, key string) int64 {
	if value, ok := record.Get(key); ok {
		if n, ok := value.(int64); ok {
			return n
		}
	}
	return 0
}
