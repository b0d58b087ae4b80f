package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Office coordinates default to the deployment this service was built for;
// override them per installation.
const (
	defaultOfficeLat     = 59.335286
	defaultOfficeLon     = 18.066011
	defaultOfficeRadiusM = 100.0
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	HTTPAddr    string
	DatabaseURL string // empty disables crossing history

	OfficeLat      float64
	OfficeLon      float64
	OfficeRadiusM  float64
	OfficeRegionID string

	FCMProjectID    string
	FCMSendURL      string
	FCMSubscribeURL string

	OIDCIssuer         string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string

	TelegramToken string
	OwnerChatID   int64

	LocationAutoGrant       bool
	CronSpecPresenceRefresh string

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID is not set")
	}
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg.GoogleClientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_SECRET is not set")
	}
	cfg.GoogleRefreshToken = os.Getenv("GOOGLE_REFRESH_TOKEN")
	if cfg.GoogleRefreshToken == "" {
		return nil, fmt.Errorf("GOOGLE_REFRESH_TOKEN is not set")
	}
	cfg.OIDCIssuer = os.Getenv("GOOGLE_OIDC_ISSUER")
	if cfg.OIDCIssuer == "" {
		cfg.OIDCIssuer = "https://accounts.google.com"
	}

	cfg.FCMProjectID = os.Getenv("FCM_PROJECT_ID")
	if cfg.FCMProjectID == "" {
		return nil, fmt.Errorf("FCM_PROJECT_ID is not set")
	}
	cfg.FCMSendURL = os.Getenv("FCM_SEND_URL")
	if cfg.FCMSendURL == "" {
		cfg.FCMSendURL = fmt.Sprintf("https://fcm.googleapis.com/v1/projects/%s/messages:send", cfg.FCMProjectID)
	}
	cfg.FCMSubscribeURL = os.Getenv("FCM_SUBSCRIBE_URL")
	if cfg.FCMSubscribeURL == "" {
		cfg.FCMSubscribeURL = "https://iid.googleapis.com/iid/v1:batchAdd"
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	// Optional: crossing history is disabled without a database.
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.OfficeLat = defaultOfficeLat
	if v := os.Getenv("OFFICE_LAT"); v != "" {
		cfg.OfficeLat, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OFFICE_LAT: %w", err)
		}
	}
	cfg.OfficeLon = defaultOfficeLon
	if v := os.Getenv("OFFICE_LON"); v != "" {
		cfg.OfficeLon, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OFFICE_LON: %w", err)
		}
	}
	cfg.OfficeRadiusM = defaultOfficeRadiusM
	if v := os.Getenv("OFFICE_RADIUS_M"); v != "" {
		cfg.OfficeRadiusM, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OFFICE_RADIUS_M: %w", err)
		}
		if cfg.OfficeRadiusM <= 0 {
			return nil, fmt.Errorf("OFFICE_RADIUS_M must be positive")
		}
	}
	cfg.OfficeRegionID = os.Getenv("OFFICE_REGION_ID")
	if cfg.OfficeRegionID == "" {
		cfg.OfficeRegionID = "office_presence_bot.officeRegion"
	}

	// Optional: local notifications are delivered to the owner's Telegram
	// chat when both values are set.
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	ownerIDStr := os.Getenv("OWNER_CHAT_ID")
	if cfg.TelegramToken != "" {
		if ownerIDStr == "" {
			return nil, fmt.Errorf("OWNER_CHAT_ID is not set but TELEGRAM_TOKEN is")
		}
		cfg.OwnerChatID, err = strconv.ParseInt(ownerIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OWNER_CHAT_ID: %w", err)
		}
	}

	cfg.LocationAutoGrant = true
	if v := os.Getenv("LOCATION_AUTO_GRANT"); v != "" {
		cfg.LocationAutoGrant, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOCATION_AUTO_GRANT: %w", err)
		}
	}

	cfg.CronSpecPresenceRefresh = os.Getenv("CRON_SPEC_PRESENCE_REFRESH")
	if cfg.CronSpecPresenceRefresh == "" {
		cfg.CronSpecPresenceRefresh = "*/10 * * * *" // Default: every 10 minutes
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
