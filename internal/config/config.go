package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Shop    ShopConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Env             string
	ShutdownTimeout time.Duration
	StaticDir       string
	// SubmitLimit caps checkout submissions per client within SubmitWindow
	SubmitLimit  int
	SubmitWindow time.Duration
}

type SessionConfig struct {
	Secret string
	Name   string
	MaxAge int // seconds
	Secure bool
	Dir    string // where visitor state files live
}

// ShopConfig holds storefront pricing and flow settings. Amounts are in cents.
type ShopConfig struct {
	Currency       string
	ServiceFee     int
	ShippingFee    int
	GAPrice        int
	VIPPrice       int
	DefaultEventID string
	PhoneRegion    string
	RedirectDelay  time.Duration
	ToastDuration  time.Duration
	LandingPath    string
}

type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	env := getEnv("ENV", "development")

	serviceFee, err := getEnvAsCents("SERVICE_FEE", "50.00")
	if err != nil {
		return nil, err
	}
	shippingFee, err := getEnvAsCents("SHIPPING_FEE", "100.00")
	if err != nil {
		return nil, err
	}
	gaPrice, err := getEnvAsCents("GA_TICKET_PRICE", "500.00")
	if err != nil {
		return nil, err
	}
	vipPrice, err := getEnvAsCents("VIP_TICKET_PRICE", "1200.00")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "localhost"),
			Env:             env,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			StaticDir:       getEnv("STATIC_DIR", "web/static"),
			SubmitLimit:     getEnvAsInt("SUBMIT_LIMIT", 20),
			SubmitWindow:    getEnvAsDuration("SUBMIT_WINDOW", time.Minute),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "micasa-dev-secret-change-in-production"),
			Name:   getEnv("SESSION_NAME", "micasa"),
			MaxAge: getEnvAsInt("SESSION_MAX_AGE", 86400*30),
			Secure: env == "production",
			Dir:    getEnv("SESSION_DIR", filepath.Join(os.TempDir(), "micasa-sessions")),
		},
		Shop: ShopConfig{
			Currency:       getEnv("CURRENCY_SYMBOL", "R"),
			ServiceFee:     serviceFee,
			ShippingFee:    shippingFee,
			GAPrice:        gaPrice,
			VIPPrice:       vipPrice,
			DefaultEventID: getEnv("DEFAULT_EVENT", "la"),
			PhoneRegion:    strings.ToUpper(getEnv("PHONE_REGION", "ZA")),
			RedirectDelay:  getEnvAsDuration("REDIRECT_DELAY", 2500*time.Millisecond),
			ToastDuration:  getEnvAsDuration("TOAST_DURATION", 4*time.Second),
			LandingPath:    getEnv("LANDING_PATH", "/"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", defaultLogFormat(env)),
		},
	}

	return config, nil
}

// Addr returns host:port for the HTTP listener
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "text"
}

// ParseCents converts a decimal amount such as "50", "50.5" or "1200.00" into cents
func ParseCents(s string) (int, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || strings.HasPrefix(whole, "-") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	units, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := 0
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.Atoi(frac)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	return units*100 + cents, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsCents(key, defaultValue string) (int, error) {
	cents, err := ParseCents(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return cents, nil
}
