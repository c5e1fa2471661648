package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"LotusLedger/internal/appmanager"
	"LotusLedger/internal/config"
	"LotusLedger/internal/staging"
	"LotusLedger/internal/store"
)

// connString builds the Postgres DSN from env vars
func connString() string {
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"), os.Getenv("DB_NAME"), sslmode,
	)
}

// InitDB opens the database/sql handle used for migrations
func InitDB() (*sql.DB, error) {
	db, err := sql.Open("postgres", connString())
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initBlobStore selects disk or S3 staging from STAGING_BACKEND
func initBlobStore(ctx context.Context) (staging.BlobStore, error) {
	switch strings.ToLower(os.Getenv(config.EnvStagingBackend)) {
	case "s3":
		prefix := os.Getenv(config.EnvStagingS3Prefix)
		if prefix == "" {
			prefix = config.DefaultS3Prefix
		}
		return staging.NewS3StoreFromEnv(ctx, os.Getenv(config.EnvStagingS3Region), os.Getenv(config.EnvStagingS3Bucket), prefix)
	default:
		dir := os.Getenv(config.EnvStagingDir)
		if dir == "" {
			dir = config.DefaultStagingDir
		}
		return staging.NewDiskStore(dir)
	}
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load("../.env")

	db, err := InitDB()
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer db.Close()
	appmanager.SetDB(db)

	ctx := context.Background()
	if err := store.Migrate(ctx, db); err != nil {
		log.Fatal("failed to migrate:", err)
	}

	pool, err := pgxpool.New(ctx, connString())
	if err != nil {
		log.Fatal("failed to open pgx pool:", err)
	}
	defer pool.Close()
	appmanager.SetPgxPool(pool)

	blobs, err := initBlobStore(ctx)
	if err != nil {
		log.Fatal("failed to init upload staging:", err)
	}
	appmanager.SetBlobStore(blobs)

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence("../services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}
	if err := manager.AutoRegisterServices(servicesCfg); err != nil {
		log.Fatal("failed to register services:", err)
	}
	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
}
