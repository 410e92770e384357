package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Mongo MongoConfig
	Store StoreConfig
	JWT   JWTConfig
	Auth  AuthConfig
	Media MediaConfig
	Log   LogConfig
	Jobs  JobsConfig
}

type AppConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type MongoConfig struct {
	URI      string
	Database string
}

// StoreConfig selects the document store backend: postgres, mongo or memory.
type StoreConfig struct {
	Driver string
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type AuthConfig struct {
	MaxLoginAttempts int
	AttemptWindow    time.Duration
}

// MediaConfig selects the image CDN backend: cloudinary or s3.
type MediaConfig struct {
	Driver     string
	Cloudinary CloudinaryConfig
	S3         S3Config
}

type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	BaseURL      string
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type JobsConfig struct {
	Enabled           bool
	ReconcileSchedule string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_CORS_ORIGINS", "*")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("STORE_DRIVER", "postgres")
	viper.SetDefault("MONGO_DATABASE", "cureconnect")
	viper.SetDefault("AUTH_MAX_LOGIN_ATTEMPTS", 5)
	viper.SetDefault("MEDIA_DRIVER", "cloudinary")
	viper.SetDefault("CLOUDINARY_BASE_URL", "https://api.cloudinary.com")
	viper.SetDefault("CLOUDINARY_UPLOAD_PRESET", "doctor_profiles")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_MAX_SIZE_MB", 50)
	viper.SetDefault("LOG_MAX_BACKUPS", 5)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 14)
	viper.SetDefault("JOBS_ENABLED", true)
	viper.SetDefault("JOBS_RECONCILE_SCHEDULE", "@every 15m")

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connMaxLifetime = time.Hour
	}

	attemptWindow, err := time.ParseDuration(viper.GetString("AUTH_ATTEMPT_WINDOW"))
	if err != nil {
		attemptWindow = 15 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			CORSOrigins: splitList(viper.GetString("APP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),

			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DATABASE"),
		},
		Store: StoreConfig{
			Driver: viper.GetString("STORE_DRIVER"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Auth: AuthConfig{
			MaxLoginAttempts: viper.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			AttemptWindow:    attemptWindow,
		},
		Media: MediaConfig{
			Driver:     viper.GetString("MEDIA_DRIVER"),
			Cloudinary: CloudinaryConfig{
				CloudName:    viper.GetString("CLOUDINARY_CLOUD_NAME"),
				UploadPreset: viper.GetString("CLOUDINARY_UPLOAD_PRESET"),
				BaseURL:      viper.GetString("CLOUDINARY_BASE_URL"),
			},
			S3: S3Config{
				Endpoint:        viper.GetString("S3_ENDPOINT"),
				Region:          viper.GetString("S3_REGION"),
				Bucket:          viper.GetString("S3_BUCKET"),
				AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
				PublicBaseURL:   viper.GetString("S3_PUBLIC_BASE_URL"),
			},
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			File:       viper.GetString("LOG_FILE"),
			MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Jobs: JobsConfig{
			Enabled:           viper.GetBool("JOBS_ENABLED"),
			ReconcileSchedule: viper.GetString("JOBS_RECONCILE_SCHEDULE"),
		},
	}

	return config, nil
}

// splitList parses a comma separated env value, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
