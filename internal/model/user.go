package model

// User là hồ sơ công khai của một tài khoản GitHub sau khi đã
// chuẩn hóa từ phản hồi API. Login là khóa duy nhất trong graph.
type User struct {
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
