package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/github-analyzer/cfg"
	"github.com/thep200/github-analyzer/internal/githubapi"
	"github.com/thep200/github-analyzer/internal/graph"
	"github.com/thep200/github-analyzer/internal/importer"
	"github.com/thep200/github-analyzer/internal/model"
	"github.com/thep200/github-analyzer/internal/ui"
	"github.com/thep200/github-analyzer/pkg/db"
	"github.com/thep200/github-analyzer/pkg/kafka"
	"github.com/thep200/github-analyzer/pkg/log"
)

func main() {
	ctx := context.Background()
	// loader, _ := cfg.NewMockLoader()
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		os.Exit(1)
	}
	logger, _ := log.NewCslLogger()

	// Graph store
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

	// Hàng đợi analyze, best effort
	var producer *kafka.Producer
	if len(config.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(config, logger, config.Kafka.Producer.TopicAnalyze)
		defer producer.Close()
	}

	handler, _ := ui.NewHandler(logger, config, imp, store, runMd, producer)
	server, _ := ui.NewServer(logger, config, handler, config.Server.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info(ctx, "Received shutdown signal, gracefully shutting down...")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error(ctx, "Failed to stop server: %v", err)
		}
		neo.Close(shutdownCtx)
		mysql.Close()
	}()

	logger.Info(ctx, "Starting %s %s", config.App.Name, config.App.Version)
	if err := server.Start(); err != nil {
		logger.Error(ctx, "Server failed: %v", err)
		os.Exit(1)
	}
}
