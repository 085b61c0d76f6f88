package db

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/thep200/github-analyzer/cfg"
)

var neo4jInitErr error

// Neo4j bao bọc driver kết nối tới graph database.
// Driver được khởi tạo lười và dùng chung cho toàn bộ ứng dụng.
type Neo4j struct {
	Config *cfg.Config
	once   sync.Once
	driver neo4j.DriverWithContext
}

func NewNeo4j(config *cfg.Config) (*Neo4j, error) {
	return &Neo4j{
		Config: config,
	}, nil
}

func (n *Neo4j) Driver() (neo4j.DriverWithContext, error) {
	n.once.Do(func() {
		n.driver, neo4jInitErr = neo4j.NewDriverWithContext(
			n.Config.Neo4j.Uri,
			neo4j.BasicAuth(n.Config.Neo4j.Username, n.Config.Neo4j.Password, ""),
		)
	})
	return n.driver, neo4jInitErr
}

func (n *Neo4j) Ping(ctx context.Context) error {
	driver, err := n.Driver()
	if err != nil {
		return err
	}
	return driver.VerifyConnectivity(ctx)
}

// Session mở một session mới trên database được cấu hình.
// Caller chịu trách nhiệm gọi Close.
func (n *Neo4j) Session(ctx context.Context, mode neo4j.AccessMode) (neo4j.SessionWithContext, error) {
	driver, err := n.Driver()
	if err != nil {
		return nil, err
	}
	return driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: n.Config.Neo4j.Database,
	}), nil
}

func (n *Neo4j) Close(ctx context.Context) error {
	if n.driver != nil {
		return n.driver.Close(ctx)
	}
	return nil
}
