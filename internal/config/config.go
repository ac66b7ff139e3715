package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration (GridFS media backend)
	MongoDB MongoDBConfig `json:"mongodb"`

	// S3 Configuration (s3 media backend)
	S3 S3Config `json:"s3"`

	Media MediaConfig `json:"media"`

	Auth AuthConfig `json:"auth"`

	Thread ThreadConfig `json:"thread"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port             string   `json:"port"`
	Host             string   `json:"host"`
	GRPCHealthPort   string   `json:"grpc_health_port"`
	MediaServicePort string   `json:"media_service_port"`
	ReadTimeout      int      `json:"read_timeout"`
	WriteTimeout     int      `json:"write_timeout"`
	Environment      string   `json:"environment"` // development, staging, production
	AllowedOrigins   []string `json:"allowed_origins"`
	WriteRateLimit   int      `json:"write_rate_limit"` // write requests per minute per IP, 0 disables
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string `json:"driver"` // mysql or postgres
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	SSLMode      string `json:"ssl_mode"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

type S3Config struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	UseSSL    bool   `json:"use_ssl"`
}

// MediaConfig selects the blob store and the public base used in quote tokens
type MediaConfig struct {
	Backend       string `json:"backend"` // gridfs, s3 or memory
	MaxUploadMB   int    `json:"max_upload_mb"`
	StatusDomain  string `json:"status_domain"`
	MediaBaseURL  string `json:"media_base_url"`
	MaxAttachment int    `json:"max_attachment"`
}

type AuthConfig struct {
	JWTSecret     string `json:"-"`
	TokenTTLHours int    `json:"token_ttl_hours"`
	Issuer        string `json:"issuer"`
}

type ThreadConfig struct {
	MaxDepth int `json:"max_depth"` // 0 disables the bound
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             getEnv("SERVER_PORT", "8000"),
			Host:             getEnv("SERVER_HOST", "0.0.0.0"),
			GRPCHealthPort:   getEnv("GRPC_HEALTH_PORT", "7005"),
			MediaServicePort: getEnv("MEDIA_SERVER_PORT", "8080"),
			ReadTimeout:      getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:     getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			Environment:      getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:   getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			WriteRateLimit:   getEnvAsInt("WRITE_RATE_LIMIT", 120),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "mysql"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "3306"),
			Username:     getEnv("DB_USERNAME", "gotwitter"),
			Password:     getEnv("DB_PASSWORD", "gotwitter123"),
			DatabaseName: getEnv("DB_DATABASE", "gotwitter"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USERNAME", "admin"),
			Password: getEnv("MONGO_PASSWORD", "admin123"),
			Database: getEnv("MONGO_DATABASE", "gotwitter"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", "tweet-media"),
			UseSSL:    getEnvAsBool("S3_USE_SSL", false),
		},
		Media: MediaConfig{
			Backend:       getEnv("MEDIA_BACKEND", "gridfs"),
			MaxUploadMB:   getEnvAsInt("MEDIA_MAX_UPLOAD_MB", 16),
			StatusDomain:  getEnv("STATUS_DOMAIN", "http://localhost:8000"),
			MaxAttachment: getEnvAsInt("MEDIA_MAX_ATTACHMENTS", 4),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "change-me"),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
			Issuer:        getEnv("JWT_ISSUER", "gotwitter"),
		},
		Thread: ThreadConfig{
			MaxDepth: getEnvAsInt("THREAD_MAX_DEPTH", 1000),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	// media links point at the media server unless overridden
	cfg.Media.MediaBaseURL = getEnv("MEDIA_BASE_URL",
		fmt.Sprintf("http://localhost:%s/media/", cfg.Server.MediaServicePort))

	return cfg
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}

	if cfg.Database.Driver == "postgres" {
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		sslMode := cfg.Database.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Username,
			cfg.Database.Password,
			cfg.Database.DatabaseName,
			sslMode,
		)
	}

	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" || cfg.MongoDB.Password == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s", cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
