// internal/config/config.go
//
// Environment-backed configuration for the server.
// godotenv is loaded in main before this package reads anything; every value
// has a development-friendly default. The engine receives these as plain
// values, never by reaching into the environment itself.

package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects every tunable the server needs.
type Config struct {
	Port          string
	DBPath        string
	LogLevel      string
	JWTSecret     string
	OracleBaseURL string
	OracleTimeout time.Duration
	DailySalt     string

	// Game behavior.
	TZOffsetHours  int  // locale offset applied to the day boundary
	HistoryDisplay int  // guesses shown by history queries
	RankDisplay    int  // entries shown by leaderboard queries
	DirectGuess    bool // default direct-guess mode for channels
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:          envStr("PORT", "5175"),
		DBPath:        envStr("DB_PATH", "./data/ciyi.db"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		JWTSecret:     envStr("JWT_SECRET", ""),
		OracleBaseURL: envStr("ORACLE_BASE_URL", "https://ci-ying.oss-cn-zhangjiakou.aliyuncs.com"),
		OracleTimeout: time.Duration(envInt("ORACLE_TIMEOUT_MS", 5000)) * time.Millisecond,
		DailySalt:     envStr("DAILY_SALT", "local_dev_salt"),

		TZOffsetHours:  envInt("TZ_OFFSET_HOURS", 8),
		HistoryDisplay: envInt("HISTORY_DISPLAY", 10),
		RankDisplay:    envInt("RANK_DISPLAY", 10),
		DirectGuess:    envBool("DIRECT_GUESS", false),
	}
}

func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
