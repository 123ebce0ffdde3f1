package config

import (
	"log"
	"os"
	"strings"
)

// Record store backends.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Object store backends for uploads and exports.
const (
	ObjectStoreLocal = "local"
	ObjectStoreS3    = "s3"
)

// Config holds application configuration. It is built once at startup and
// passed explicitly to every component.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	StorageDriver   string
	SQLitePath      string
	DatabaseURL     string
	UploadDir       string
	ExportDir       string
	ObjectStoreType string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	driver := normalizeStorageDriver(getEnv("STORAGE_DRIVER", ""), dbURL)

	if driver == StoragePostgres && dbURL == "" {
		log.Printf("STORAGE_DRIVER=postgres requires DATABASE_URL")
	}

	return Config{
		Port:            getEnv("PORT", "5001"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		StorageDriver:   driver,
		SQLitePath:      getEnv("SQLITE_PATH", "./records.db"),
		DatabaseURL:     dbURL,
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		ExportDir:       getEnv("EXPORT_DIR", "./exports"),
		ObjectStoreType: normalizeObjectStore(getEnv("OBJECT_STORE", ObjectStoreLocal)),
		AWSRegion:       os.Getenv("AWS_REGION"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Prefix:        os.Getenv("S3_PREFIX"),
		SSEKMSKeyID:     os.Getenv("S3_SSE_KMS_KEY_ID"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

// normalizeStorageDriver picks the record store backend. An explicit
// STORAGE_DRIVER wins; otherwise DATABASE_URL selects postgres and the
// fixed-path SQLite file is the fallback.
func normalizeStorageDriver(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "postgresql", "pg":
		return StoragePostgres
	case "memory", "mem":
		return StorageMemory
	case "sqlite", "sqlite3":
		return StorageSQLite
	}
	if strings.TrimSpace(dbURL) != "" {
		return StoragePostgres
	}
	return StorageSQLite
}

func normalizeObjectStore(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), ObjectStoreS3) {
		return ObjectStoreS3
	}
	return ObjectStoreLocal
}
