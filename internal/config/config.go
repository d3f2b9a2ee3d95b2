package config

import (
	"fmt"
	"os"
	"regexp"
	"time"
)

var stripeSecretKeyPattern = regexp.MustCompile(`^sk_(test|live)_`)

type Config struct {
	Addr    string
	SiteDir string // static storefront root

	CatalogPath string // canonical products.json
	BackupDir   string

	AdminToken     string // shared secret, compared in constant time
	AdminTokenHash string // optional bcrypt hash; takes precedence over AdminToken
	SessionSecret  string // HMAC key for the admin cookie
	SessionTTL     time.Duration

	StripeSecretKey string
	StripePublicKey string
	Currency        string

	CookieSecure bool
}

// Load reads configuration from the environment. godotenv runs in main, so
// dev values come from .env and prod from real env vars.
func Load() (Config, error) {
	cfg := Config{
		Addr:            envOr("ADDR", ":8080"),
		SiteDir:         envOr("SITE_DIR", "./site"),
		CatalogPath:     envOr("CATALOG_PATH", "./site/products.json"),
		BackupDir:       envOr("CATALOG_BACKUP_DIR", "./backups"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		AdminTokenHash:  os.Getenv("ADMIN_TOKEN_HASH"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      6 * time.Hour,
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		StripePublicKey: os.Getenv("STRIPE_PUBLIC_KEY"),
		Currency:        envOr("CURRENCY", "usd"),
		CookieSecure:    os.Getenv("COOKIE_SECURE") == "1",
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	if cfg.AdminToken == "" && cfg.AdminTokenHash == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN or ADMIN_TOKEN_HASH is required")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if !stripeSecretKeyPattern.MatchString(cfg.StripeSecretKey) {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY missing or invalid")
	}

	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
