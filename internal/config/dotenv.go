package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	AuthSecret               string
	AuthTokenTTLMinutes      int
	BadgeUpcomingWindow      int
	TriviaQuestionLimit      int
	LeaderboardDefaultLimit  int
	LeaderboardMaxLimit      int
	MaxPhotoBytes            int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		AuthTokenTTLMinutes:      60 * 24,
		BadgeUpcomingWindow:      50,
		TriviaQuestionLimit:      6,
		LeaderboardDefaultLimit:  10,
		LeaderboardMaxLimit:      100,
		MaxPhotoBytes:            5 * 1024 * 1024,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("AUTH_SECRET"); raw != "" {
		cfg.AuthSecret = raw
	}
	if raw := os.Getenv("AUTH_TOKEN_TTL_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.AuthTokenTTLMinutes = value
		}
	}
	if raw := os.Getenv("BADGE_UPCOMING_WINDOW"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.BadgeUpcomingWindow = value
		}
	}
	if raw := os.Getenv("TRIVIA_QUESTION_LIMIT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TriviaQuestionLimit = value
		}
	}
	if raw := os.Getenv("LEADERBOARD_DEFAULT_LIMIT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.LeaderboardDefaultLimit = value
		}
	}
	if raw := os.Getenv("LEADERBOARD_MAX_LIMIT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.LeaderboardMaxLimit = value
		}
	}
	if raw := os.Getenv("MAX_PHOTO_BYTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxPhotoBytes = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}
