// Gói aggregator tính thống kê ngôn ngữ từ danh sách repository đã fetch.
// Kết quả chỉ phụ thuộc vào tập repository, không phụ thuộc thứ tự đầu vào.

package aggregator

import (
	"sort"

	"github.com/thep200/github-analyzer/internal/model"
)

// Stat là thống kê tích lũy của một ngôn ngữ trên các repository của user
type Stat struct {
	RepoCount  int   `json:"repo_count"`
	TotalBytes int64 `json:"total_bytes"`
}

type Options struct {
	ExcludeForks bool
}

// Aggregate gom số repository và tổng số byte theo từng ngôn ngữ.
// Repository không khai báo ngôn ngữ nào không đóng góp entry.
// Với repo chỉ có ngôn ngữ chính (không có phân bổ byte), RepoCount
// vẫn được cộng nhưng TotalBytes giữ nguyên.
func Aggregate(repos []model.Repo, opts Options) map[string]Stat {
	stats := make(map[string]Stat)

	for _, repo := range repos {
		if opts.ExcludeForks && repo.IsFork {
			continue
		}

		if len(repo.Languages) > 0 {
			for lang, bytes := range repo.Languages {
				stat := stats[lang]
				stat.RepoCount++
				stat.TotalBytes += bytes
				stats[lang] = stat
			}
			continue
		}

		if repo.Language != "" {
			stat := stats[repo.Language]
			stat.RepoCount++
			stats[repo.Language] = stat
		}
	}

	return stats
}

// LanguageCount là một entry đã xếp hạng để hiển thị
type LanguageCount struct {
	Name       string `json:"name"`
	RepoCount  int    `json:"repo_count"`
	TotalBytes int64  `json:"total_bytes"`
}

// Top trả về tối đa n ngôn ngữ, xếp theo số repository giảm dần,
// cùng số repository thì theo tên tăng dần
func Top(stats map[string]Stat, n int) []LanguageCount {
	ranked := make([]LanguageCount, 0, len(stats))
	for name, stat := range stats {
		ranked = append(ranked, LanguageCount{
			Name:       name,
			RepoCount:  stat.RepoCount,
			TotalBytes: stat.TotalBytes,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RepoCount != ranked[j].RepoCount {
			return ranked[i].RepoCount > ranked[j].RepoCount
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
