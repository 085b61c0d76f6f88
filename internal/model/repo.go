package model

// Repo là một repository công khai của user. FullName ("owner/name")
// là khóa duy nhất trong graph. Languages là phân bổ byte theo ngôn ngữ
// từ endpoint /languages, rỗng với các repo fork.
type Repo struct {
	Name        string           `json:"name"`
	FullName    string           `json:"full_name"`
	Description string           `json:"description"`
	Language    string           `json:"language"`
	Stars       int              `json:"stars"`
	Forks       int              `json:"forks"`
	Watchers    int              `json:"watchers"`
	Size        int              `json:"size"`
	IsFork      bool             `json:"is_fork"`
	IsPrivate   bool             `json:"is_private"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	PushedAt    string           `json:"pushed_at"`
	CloneUrl    string           `json:"clone_url"`
	HtmlUrl     string           `json:"html_url"`
	Topics      []string         `json:"topics"`
	Languages   map[string]int64 `json:"languages"`
}
