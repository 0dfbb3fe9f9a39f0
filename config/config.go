package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	BaseURL     string
	DatabaseDSN string

	JWTSecret            string
	JWTExpiresIn         time.Duration
	JWTCookieExpiresDays int
	BcryptCost           int

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	CloudinaryURL   string
	StripeSecretKey string

	SMTPAddr         string
	GmailUser        string
	GmailAppPassword string
	MailFrom         string
	MailFromName     string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	return Config{
		ServerPort:  envOr("SERVER_PORT", ":8000"),
		BaseURL:     envOr("BASE_URL", "http://localhost:8000"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTExpiresIn:         envDuration("JWT_EXPIRES_IN", 24*time.Hour),
		JWTCookieExpiresDays: envInt("JWT_COOKIE_EXPIRES_IN", 90),
		BcryptCost:           envInt("BCRYPT_COST", 12),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    envOr("KAFKA_TOPIC", "natours.mail"),
		KafkaGroupID:  envOr("KAFKA_GROUP_ID", "mail-worker"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		SMTPAddr:         envOr("SMTP_ADDR", "smtp.gmail.com:587"),
		GmailUser:        os.Getenv("GMAIL_USER"),
		GmailAppPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		MailFrom:         os.Getenv("MAIL_FROM"),
		MailFromName:     envOr("MAIL_FROM_NAME", "Natours"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
