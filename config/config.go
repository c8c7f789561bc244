package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`

	// API-Key für Admin-Endpunkte (Moderation, Reward-Trigger). Leer = offen (nur Dev).
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Cron-Zeitpläne der Batch-Jobs
	TrendingCronSchedule  string `envconfig:"TRENDING_CRON_SCHEDULE" default:"0 * * * *"`
	RewardCronSchedule    string `envconfig:"REWARD_CRON_SCHEDULE" default:"10 0 * * 1"`
	ReconcileCronSchedule string `envconfig:"RECONCILE_CRON_SCHEDULE" default:"0 */6 * * *"`

	// Username des synthetischen Genesis-Nutzers für importierte Seed-Inhalte.
	GenesisUsername string `envconfig:"GENESIS_USERNAME" default:"genesis"`

	// S3 für Reward-Reports und Backups
	StratoS3Key    string `envconfig:"STRATO_S3_KEY" required:"true"`
	StratoS3Secret string `envconfig:"STRATO_S3_SECRET" required:"true"`
	StratoS3URL    string `envconfig:"STRATO_S3_URL" required:"true"`
	StratoS3Region string `envconfig:"STRATO_S3_REGION" required:"true"`
	StratoS3Bucket string `envconfig:"STRATO_S3_BUCKET" required:"true"`

	// Reward-Reports nach der Berechnung als JSON ins S3 archivieren.
	ArchiveRewardReports bool `envconfig:"ARCHIVE_REWARD_REPORTS" default:"true"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
