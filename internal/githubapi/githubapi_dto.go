// Gói githubapi cung cấp các đối tượng truyền dữ liệu cho dự án
// Chuyển đổi phản hồi GitHub API thành một cấu trúc

package githubapi

type UserResponse struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Company     string `json:"company"`
	Blog        string `json:"blog"`
	Email       string `json:"email"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	AvatarUrl   string `json:"avatar_url"`
}

type RepoOwner struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

type RepoResponse struct {
	Id              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Owner           RepoOwner `json:"owner"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	WatchersCount   int       `json:"watchers_count"`
	Size            int       `json:"size"`
	Fork            bool      `json:"fork"`
	Private         bool      `json:"private"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
	PushedAt        string    `json:"pushed_at"`
	CloneUrl        string    `json:"clone_url"`
	HtmlUrl         string    `json:"html_url"`
	Topics          []string  `json:"topics"`
}
