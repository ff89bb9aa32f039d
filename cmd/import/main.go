package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/2beens/mmtreino/internal/config"
	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/internal/importer"
	"github.com/2beens/mmtreino/internal/logging"
	"github.com/2beens/mmtreino/internal/schema"
	"github.com/2beens/mmtreino/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	dataDir := flag.String("data", "", "dir with the .xlsx workbooks, overrides data_dir from config")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	if err := run(cfg); err != nil {
		log.Errorf("import failed: %s", err)
		closeLogs()
		os.Exit(1)
	}
	closeLogs()
}

func run(cfg *config.Config) error {
	exists, err := pkg.PathExists(cfg.DataDir, true)
	if err != nil {
		return fmt.Errorf("check data dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("data dir %s does not exist", cfg.DataDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store := db.NewStore(db.Options{
		DSN:      cfg.DatabaseURL,
		LogLevel: "warn",
		OnOpen:   schema.Migrate,
	})
	defer store.Close()

	res, err := importer.New(store, cfg.DataDir).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(res)
	return nil
}
