package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the server's runtime configuration.
type Config struct {
	Port             string        `validate:"required,numeric"`
	GinMode          string        `validate:"omitempty,oneof=debug release test"`
	LogLevel         string        `validate:"oneof=trace debug info warn error"`
	LogHuman         bool
	DatabasePath     string        `validate:"required"`
	SubmitDelay      time.Duration `validate:"gte=0"`
	GreetingInterval time.Duration `validate:"gt=0"`
	PageIdleTTL      time.Duration `validate:"gt=0"`
	MaxPages         int           `validate:"gt=0"`
	VisitorRetention time.Duration `validate:"gt=0"`
	TrackingEnabled  bool
	TrackingSalt     string
	// SimulateSendFailure makes every contact submission resolve to the
	// failure message, for checking the error path by hand.
	SimulateSendFailure bool
}

// ValidationError captures a configuration value that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv, applying defaults for unset keys.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:         orDefault(getenv("PORT"), "8080"),
		GinMode:      getenv("GIN_MODE"),
		LogLevel:     strings.ToLower(orDefault(getenv("LOG_LEVEL"), "info")),
		DatabasePath: orDefault(getenv("DATABASE_PATH"), "portfolio.db"),
		TrackingSalt: getenv("TRACKING_SALT"),
	}

	var err error
	if cfg.LogHuman, err = parseBool(getenv, "LOG_HUMAN", false); err != nil {
		return nil, err
	}
	if cfg.TrackingEnabled, err = parseBool(getenv, "TRACKING_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.SimulateSendFailure, err = parseBool(getenv, "SIMULATE_SEND_FAILURE", false); err != nil {
		return nil, err
	}
	if cfg.SubmitDelay, err = parseDuration(getenv, "SUBMIT_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.GreetingInterval, err = parseDuration(getenv, "GREETING_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.PageIdleTTL, err = parseDuration(getenv, "PAGE_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = parseInt(getenv, "MAX_PAGES", 1000); err != nil {
		return nil, err
	}
	if cfg.VisitorRetention, err = parseDuration(getenv, "VISITOR_RETENTION", 365*24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.TrackingSalt == "" {
		cfg.TrackingSalt = randomSalt()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on Config.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q (got %v)", fe.Tag(), fe.Value()),
			Err:     err,
		}
	}
	return &ValidationError{Message: err.Error(), Err: err}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ValidationError{Field: key, Message: "not a boolean", Err: err}
	}
	return v, nil
}

func parseInt(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: key, Message: "not an integer", Err: err}
	}
	return v, nil
}

func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ValidationError{Field: key, Message: "not a duration", Err: err}
	}
	return v, nil
}

func randomSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random salt: %v", err))
	}
	return hex.EncodeToString(b)
}
