package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (yl *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "github-analyzer",
			Version: "0.0.1",
		},

		// Server
		Server: Server{
			Port: 8080,
		},

		// Mysql
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "github_analyzer",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// Neo4j
		Neo4j: Neo4j{
			Uri:      "bolt://localhost:7687",
			Username: "neo4j",
			Password: "password",
			Database: "neo4j",
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessToken:       "",
			UserApiUrl:        "https://api.github.com/users/{user}",
			ReposApiUrl:       "https://api.github.com/users/{user}/repos",
			LanguagesApiUrl:   "https://api.github.com/repos/{user}/{repo}/languages",
			PerPage:           100,
			RequestsPerSecond: 10,
			ThrottleDelay:     100,
			RateLimitResetMin: 5,
			TimeoutSec:        30,
		},

		// Kafka
		Kafka: Kafka{
			Brokers: []string{"localhost:9092"},
			Producer: KafkaProducer{
				TopicAnalyze: "github-analyzer.analyze",
			},
		},
	}, nil
}
