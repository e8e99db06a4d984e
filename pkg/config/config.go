package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Cloudinary CloudinaryConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Name         string
	Version      string
	Environment  string
	ClientOrigin string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

// AdminConfig holds the single dashboard account. The password is stored as
// a bcrypt hash, never in the clear.
type AdminConfig struct {
	Username       string
	HashedPassword string
}

type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	Folder       string
	ModelsPrefix string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type RateLimitConfig struct {
	RequestsPerMinute int
	LoginAttempts     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	ratePerMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil {
		return nil, errors.New("invalid rate limit")
	}

	loginAttempts, err := strconv.Atoi(getEnv("RATE_LIMIT_LOGIN_ATTEMPTS", "5"))
	if err != nil {
		return nil, errors.New("invalid login rate limit")
	}

	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "Steeze Store API"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			ClientOrigin: getEnv("CLIENT_ORIGIN", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "steezestore"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Admin: AdminConfig{
			Username:       getEnv("ADMIN_USER", ""),
			HashedPassword: getEnv("ADMIN_HASHED_PASS", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:       getEnv("CLOUDINARY_FOLDER", "steezestore/products"),
			ModelsPrefix: getEnv("CLOUDINARY_MODELS_PREFIX", "steezemodels/"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: ratePerMinute,
			LoginAttempts:     loginAttempts,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Admin.Username == "" || cfg.Admin.HashedPassword == "" {
		return nil, errors.New("missing admin credentials")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
