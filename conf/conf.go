package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultSecretKey = "dev-secret-key-change-in-production"

type Config struct {
	SecretKey string
	Debug     bool
	Host      string
	Port      int

	CodeTimeout   time.Duration
	MaxCodeLength int
	PythonBin     string

	// directory holding topics.toml and problems.toml; empty means embedded content
	ContentDir string

	RateLimitRps   float64 // 0 disables limiting
	RateLimitBurst int

	CorsOrigins []string
}

func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads .env (if present) into the environment and builds the config from it.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	c := Config{
		SecretKey:  get("SECRET_KEY", DefaultSecretKey),
		Debug:      get("DEBUG", "False") == "True",
		Host:       get("HOST", "0.0.0.0"),
		PythonBin:  get("PYTHON_BIN", "python3"),
		ContentDir: get("CONTENT_DIR", ""),
	}

	var err error
	if c.Port, err = strconv.Atoi(get("PORT", "5000")); err != nil {
		return Config{}, fmt.Errorf("invalid PORT: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT: %d out of range", c.Port)
	}

	timeoutSecs, err := strconv.ParseFloat(get("CODE_TIMEOUT", "5"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid CODE_TIMEOUT: %w", err)
	}
	if !isFinite(timeoutSecs) || timeoutSecs <= 0 {
		return Config{}, fmt.Errorf("invalid CODE_TIMEOUT: must be a positive number")
	}
	if timeoutSecs > math.MaxInt64/float64(time.Second) {
		return Config{}, fmt.Errorf("invalid CODE_TIMEOUT: too large")
	}
	c.CodeTimeout = time.Duration(timeoutSecs * float64(time.Second))

	if c.MaxCodeLength, err = strconv.Atoi(get("MAX_CODE_LENGTH", "10000")); err != nil {
		return Config{}, fmt.Errorf("invalid MAX_CODE_LENGTH: %w", err)
	}
	if c.MaxCodeLength <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_CODE_LENGTH: must be positive")
	}

	if c.RateLimitRps, err = strconv.ParseFloat(get("RATE_LIMIT_RPS", "0"), 64); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if !isFinite(c.RateLimitRps) || c.RateLimitRps < 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS: must be a non-negative number")
	}
	if c.RateLimitBurst, err = strconv.Atoi(get("RATE_LIMIT_BURST", "5")); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			c.CorsOrigins = append(c.CorsOrigins, origin)
		}
	}

	return c, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
