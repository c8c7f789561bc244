package main

import (
	"flag"
	"log"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stumble-higher/config"
	"stumble-higher/models"
	"stumble-higher/services"
)

// Genesis-Import: liest eine JSON-Seed-Datei und legt die Einträge als
// bereits approvte Resources des Genesis-Nutzers an. Idempotent – bekannte
// URLs werden übersprungen.
func main() {
	seedFile := flag.String("file", "seed/genesis.json", "Pfad zur JSON-Seed-Datei")
	flag.Parse()

	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}

	db.AutoMigrate(&models.User{}, &models.Resource{})

	genesis := services.NewGenesisService(db, logging)
	imported, err := genesis.ImportFile(*seedFile, cfg.GenesisUsername)
	if err != nil {
		logging.Fatal("Genesis import failed", zap.Error(err))
	}

	logging.Info("Genesis import finished", zap.Int("imported", imported))
}
