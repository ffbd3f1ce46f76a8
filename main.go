package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"diary-service/config"
	"diary-service/database"
	"diary-service/generator"
	"diary-service/server"
	"diary-service/store"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run modules")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", ".", "Target directory for the new .sql file (e.g. ./database/migrations)")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		server.StartServer()
	case "generate":
		// One-shot full rebuild of the static site, same semantics as the
		// rebuild triggered after every admin mutation.
		logger.Init(logger.LoggerConfig{
			CallerKey:  "file",
			TimeKey:    "timestamp",
			CallerSkip: 1,
		})
		cfg, err := config.Load()
		if err != nil {
			logger.Error("Failed to load config", zap.Error(err))
			os.Exit(1)
		}
		dbConn := database.InitializeDatabase(cfg)
		defer dbConn.Close()
		builder := generator.New(store.NewArticleStore(dbConn), cfg.TemplatesDir, cfg.OutputDir)
		if err := builder.Rebuild(); err != nil {
			logger.Error("Site generation failed", zap.Error(err))
			os.Exit(1)
		}
	case "create-migration":
		migrations.CreateMigration(nameFlag, dirFlag)
	}
}
