package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv    string
	Port      string
	ClientURL string

	JWTSecret string
	TokenTTL  time.Duration

	MongoURI string
	MongoDB  string

	RabbitMQURL       string
	NotificationQueue string

	RedisURL    string
	SOSCooldown time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	PostgresDSN string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	AdminName     string
	AdminEmail    string
	AdminPassword string
	AdminPhone    string
}

func Load() (*Config, error) {
	// .env is optional; container deployments pass real env vars
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "5000"),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),

		JWTSecret: getEnv("JWT_SECRET", "rakshak-women-safety-secure-jwt-secret"),

		MongoURI: mongoURI(),
		MongoDB:  getEnv("MONGO_DB", "rakshak-women-safety"),

		RabbitMQURL:       rabbitMQURL(),
		NotificationQueue: getEnv("NOTIFICATION_QUEUE", "notifications"),

		RedisURL: os.Getenv("REDIS_URL"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "complaint-attachments"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",

		PostgresDSN: postgresDSN(),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPUser:     os.Getenv("EMAIL_USER"),
		SMTPPassword: os.Getenv("EMAIL_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", getEnv("EMAIL_USER", "no-reply@rakshak.local")),

		AdminName:     getEnv("ADMIN_NAME", "Admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@rakshak.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin@123"),
		AdminPhone:    getEnv("ADMIN_PHONE", "9999999999"),
	}

	var err error
	cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.SOSCooldown, err = time.ParseDuration(getEnv("SOS_COOLDOWN", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOS_COOLDOWN: %w", err)
	}
	cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func mongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	if os.Getenv("MONGO_HOST") == "" {
		return "mongodb://localhost:27017"
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		os.Getenv("MONGO_USER"),
		os.Getenv("MONGO_PASSWORD"),
		os.Getenv("MONGO_HOST"),
		getEnv("MONGO_PORT", "27017"),
	)
}

func rabbitMQURL() string {
	if uri := os.Getenv("RABBITMQ_URL"); uri != "" {
		return uri
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		getEnv("RABBITMQ_USER", "guest"),
		getEnv("RABBITMQ_PASS", "guest"),
		getEnv("RABBITMQ_HOST", "localhost"),
		getEnv("RABBITMQ_PORT", "5672"),
	)
}

func postgresDSN() string {
	if os.Getenv("POSTGRES_HOST") == "" {
		return "host=localhost user=admin password=password dbname=notification_db port=5432 sslmode=disable TimeZone=UTC"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		getEnv("POSTGRES_DB", "notification_db"),
		getEnv("POSTGRES_PORT", "5432"),
	)
}
