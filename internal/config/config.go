package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings for the users store.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI                 string
	Database            string
	DocumentsCollection string
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	SecretKey string
	Algorithm string
	TokenTTL  time.Duration
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects where uploaded files are kept.
// Driver is "local" (files under UploadDir) or "minio".
type StorageConfig struct {
	Driver    string
	UploadDir string
	MinIO     MinIOConfig
}

// RedisConfig configures the content results cache. An empty URL disables it.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// SearchConfig configures Meilisearch. An empty URL disables it.
type SearchConfig struct {
	MeiliURL    string
	MeiliAPIKey string
}

// StaticConfig holds the directories served as static content.
type StaticConfig struct {
	PublicDir string
	AvatarDir string
}

// ContentConfig holds defaults for the content processors.
type ContentConfig struct {
	DefaultQuestions int
	MaxQuestions     int
	KeywordCount     int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Env      string
	Database DatabaseConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Search   SearchConfig
	Static   StaticConfig
	Content  ContentConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8000"),
		Port:    getEnv("PORT", "8000"),
		Env:     getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:                 getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:            getEnv("MONGO_DB", "UniHub_Courses"),
			DocumentsCollection: getEnv("MONGO_DOCUMENTS_COLLECTION", "Courses"),
		},
		Auth: AuthConfig{
			SecretKey: getEnv("SECRET_KEY", ""),
			Algorithm: getEnv("ALGORITHM", "HS256"),
			TokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "local"),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
			TTL: getEnvDuration("CONTENT_CACHE_TTL", time.Hour),
		},
		Search: SearchConfig{
			MeiliURL:    getEnv("MEILI_URL", ""),
			MeiliAPIKey: getEnv("MEILI_API_KEY", ""),
		},
		Static: StaticConfig{
			PublicDir: getEnv("PUBLIC_DIR", "public"),
			AvatarDir: getEnv("AVATAR_DIR", "static/avatars"),
		},
		Content: ContentConfig{
			DefaultQuestions: getEnvInt("QUIZ_DEFAULT_QUESTIONS", 10),
			MaxQuestions:     getEnvInt("QUIZ_MAX_QUESTIONS", 30),
			KeywordCount:     getEnvInt("KEYWORD_COUNT", 5),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
