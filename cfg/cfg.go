package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Server struct {
		Port int
	}

	Mysql struct {
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	Neo4j struct {
		Uri      string
		Username string
		Password string
		Database string
	}

	GithubApi struct {
		AccessToken       string
		UserApiUrl        string
		ReposApiUrl       string
		LanguagesApiUrl   string
		PerPage           int
		RequestsPerSecond int
		ThrottleDelay     int
		RateLimitResetMin int
		TimeoutSec        int
	}

	KafkaProducer struct {
		TopicAnalyze string
	}

	Kafka struct {
		Brokers  []string
		Producer KafkaProducer
	}
)

type Config struct {
	App       App
	Server    Server
	Mysql     Mysql
	Neo4j     Neo4j
	GithubApi GithubApi
	Kafka     Kafka
}
