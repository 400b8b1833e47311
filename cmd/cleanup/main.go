package main

import (
	"flag"
	"log"
	"os"

	"github.com/catalogia/pim_go_server/config"
	"github.com/catalogia/pim_go_server/internal/database"
	"github.com/catalogia/pim_go_server/internal/pkg/cron"
	"github.com/catalogia/pim_go_server/internal/repository"
)

var retentionHours = flag.Int("retention-hours", 0, "Override batch record retention window (0 = use config)")

// Passada única de limpeza dos registros de lote, para rodar via cron do
// sistema quando o servidor não fica no ar continuamente.
func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	retention := cfg.Cleanup.RetentionHours
	if *retentionHours > 0 {
		retention = *retentionHours
	}

	batchRepo := repository.NewBatchJobRepository(db)
	cleaner := cron.NewService(batchRepo, retention, cfg.Cleanup.IntervalMinutes)

	deleted, err := cleaner.RunNow()
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	log.Printf("Cleanup completed: removed %d expired batch records", deleted)
}
