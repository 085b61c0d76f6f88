package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/githubapi"
	"github.com/thep200/github-analyzer/internal/graph"
	"github.com/thep200/github-analyzer/internal/importer"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/pkg/db"
	"github.com/thep200/github-analyzer/pkg/kafka"
	"github.com/thep200/github-analyzer/pkg/log"
)

func main() {
	// Load configuration
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, _ := log.NewCslLogger()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graph store
	neo, _ := db.NewNeo4j(config)
	store, _ := graph.NewNeo4jStore(logger, config, neo)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error(ctx, "Failed to ensure graph schema: %v", err)
		os.Exit(1)
	}

	// Lịch sử import, best effort
	var runMd *model.ImportRun
	mysql, _ := db.NewMysql(config)
	runMd, _ = model.NewImportRun(config, logger, mysql)
	if err := mysql.Migrate(runMd); err != nil {
		logger.Warn(ctx, "Import history disabled: %v", err)
		runMd = nil
	}

	// Pipeline
	caller := githubapi.NewCaller(logger, config)
	imp, _ := importer.NewImporter(logger, config, caller, store, runMd)

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	consumer := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicAnalyze, "analyze-consumer-group")

	// Register handler for analyze messages
	consumer.RegisterHandler("analyze", func(data []byte) error {
		var msg model.AnalyzeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal analyze message: %w", err)
		}

		summary, err := imp.ImportUser(ctx, msg.Login)
		if err != nil {
			return fmt.Errorf("failed to import user %s: %w", msg.Login, err)
		}

		logger.Info(ctx, "Imported %s: %d repos, %d languages", summary.Login, summary.ReposImported, summary.LanguagesFound)
		return nil
	})

	// Start consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error(ctx, "Analyze consumer error: %v", err)
		}
	}()

	logger.Info(ctx, "Analyze consumer started successfully")

	// Wait for termination signal
	<-sigCh
	logger.Info(ctx, "Received shutdown signal, gracefully shutting down...")
	cancel()
	consumer.Close()
	neo.Close(context.Background())
	mysql.Close()
}
