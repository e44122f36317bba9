package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yashrajoria/checkout-service/models"
)

// Config holds all configuration for the checkout service.
type Config struct {
	Port string
	Env  string

	// SNS topic for payment_processed events; empty disables publishing.
	PaymentSNSTopicARN string

	UseSecrets bool
	SecretName string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string

	ProcessorTimeouts map[models.PaymentMode]time.Duration

	// Loaded for parity with the retry settings of a real gateway. Nothing
	// retries yet.
	MaxRetries int
	RetryDelay time.Duration

	HistoryLimit       int
	RateLimitPerMinute int
	RateLimitBurst     int
	CORSAllowedOrigins []string
	TxIDStrategy       string
}

// SecretGetter reads a JSON secret as a flat string map.
type SecretGetter interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

// LoadConfig reads configuration from environment variables, after loading
// a .env file when one is present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8091"),
		Env:                 getEnv("APP_ENV", "development"),
		PaymentSNSTopicARN:  os.Getenv("PAYMENT_SNS_TOPIC_ARN"),
		UseSecrets:          os.Getenv("AWS_USE_SECRETS") == "true",
		SecretName:          getEnv("CHECKOUT_SECRET_NAME", "checkout/CONFIG"),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Checkout"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/checkout/services"),
		TxIDStrategy:        getEnv("TXID_STRATEGY", "random"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ProcessorTimeouts:   make(map[models.PaymentMode]time.Duration),
	}

	var err error
	timeouts := map[models.PaymentMode]struct{ key, fallback string }{
		models.PaymentModePayPal:     {"PAYPAL_TIMEOUT", "45s"},
		models.PaymentModeGooglePay:  {"GOOGLEPAY_TIMEOUT", "30s"},
		models.PaymentModeCreditCard: {"CREDITCARD_TIMEOUT", "60s"},
	}
	for mode, t := range timeouts {
		if cfg.ProcessorTimeouts[mode], err = getDuration(t.key, t.fallback); err != nil {
			return nil, err
		}
	}
	if cfg.RetryDelay, err = getDuration("RETRY_DELAY", "1s"); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getInt("MAX_RETRIES", 3); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = getInt("HISTORY_LIMIT", 1000); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_RPM", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 50); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplySecrets overrides settings from the CHECKOUT_SECRET_NAME secret when
// AWS_USE_SECRETS is on. Keys absent from the secret are left alone.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) error {
	if !c.UseSecrets || sm == nil {
		return nil
	}
	m, err := sm.GetSecretMap(ctx, c.SecretName)
	if err != nil {
		return err
	}
	if v, ok := m["PAYMENT_SNS_TOPIC_ARN"]; ok && v != "" {
		c.PaymentSNSTopicARN = v
	}
	if v, ok := m["CLOUDWATCH_NAMESPACE"]; ok && v != "" {
		c.CloudWatchNamespace = v
	}
	return nil
}

func (c *Config) validate() error {
	for mode, d := range c.ProcessorTimeouts {
		if d <= 0 {
			return fmt.Errorf("timeout for %s must be positive", mode)
		}
	}
	switch {
	case c.MaxRetries < 0:
		return fmt.Errorf("MAX_RETRIES must not be negative")
	case c.RetryDelay < 0:
		return fmt.Errorf("RETRY_DELAY must not be negative")
	case c.HistoryLimit < 0:
		return fmt.Errorf("HISTORY_LIMIT must not be negative")
	case c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0:
		return fmt.Errorf("rate limit settings must be positive")
	}
	switch c.TxIDStrategy {
	case "random", "sequence":
	default:
		return fmt.Errorf("TXID_STRATEGY must be random or sequence, got %q", c.TxIDStrategy)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// getDuration accepts Go durations ("45s") or bare seconds ("45").
func getDuration(key, fallback string) (time.Duration, error) {
	val := getEnv(key, fallback)
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
