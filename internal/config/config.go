package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup from the environment, optionally seeded from a .env file.
type Config struct {
	Env      string // dev / staging / prod
	HTTPAddr string

	TokenSecret       string
	TokenTTL          time.Duration
	TokenIssuer       string
	PasswordHashCost  int
	PasswordMinLength int
	MobilePattern     string

	// Infrastructure
	DBAddr         string
	DBDebug        bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RabbitURL      string
	RabbitExchange string

	// Media host (S3-compatible). Empty bucket means in-memory storage (dev only).
	S3            S3Config
	MediaBaseURL  string
	MaxUploadSize int64

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// One-time verification flows
	VerifyEmailBaseURL  string
	VerifyEmailTokenTTL time.Duration
	VerifyMobileCodeTTL time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// Load reads the configuration and reports every invalid or missing
// variable at once.
func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	var e envReader
	cfg := &Config{
		Env:      e.str("ENV", "dev"),
		HTTPAddr: e.str("HTTP_ADDR", ":5000"),

		TokenSecret:       e.required("TOKEN_SECRET"),
		TokenTTL:          e.duration("TOKEN_TTL", 24*time.Hour),
		TokenIssuer:       e.str("TOKEN_ISSUER", "company-registry"),
		PasswordHashCost:  e.integer("PASSWORD_HASH_COST", 10),
		PasswordMinLength: e.integer("PASSWORD_MIN_LENGTH", 6),
		MobilePattern:     e.str("MOBILE_PATTERN", `^\+?[0-9]{10,15}$`),

		DBAddr:         os.Getenv("DB_ADDR"),
		DBDebug:        e.boolean("DB_DEBUG", false),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        e.integer("REDIS_DB", 0),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: e.str("RABBIT_EXCHANGE", "company.events"),

		S3: S3Config{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          e.str("S3_REGION", "us-east-1"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("S3_BUCKET"),
			UsePathStyle:    e.boolean("S3_USE_PATH_STYLE", true),
		},
		MaxUploadSize: e.bytes("MAX_UPLOAD_SIZE", 5<<20),

		HTTPReadTimeout:  e.duration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: e.duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:  e.duration("HTTP_IDLE_TIMEOUT", time.Minute),

		VerifyEmailBaseURL:  e.str("VERIFY_EMAIL_BASE_URL", "http://localhost:5173/verify-email/"),
		VerifyEmailTokenTTL: e.duration("VERIFY_EMAIL_TOKEN_TTL", 24*time.Hour),
		VerifyMobileCodeTTL: e.duration("VERIFY_MOBILE_CODE_TTL", 10*time.Minute),
	}
	cfg.MediaBaseURL = strings.TrimRight(e.str("MEDIA_BASE_URL", defaultMediaBaseURL(cfg)), "/")

	e.check(cfg.TokenTTL > 0, "TOKEN_TTL must be positive")
	// bcrypt.MinCost..bcrypt.MaxCost
	e.check(cfg.PasswordHashCost >= 4 && cfg.PasswordHashCost <= 31,
		"PASSWORD_HASH_COST must be between 4 and 31, got %d", cfg.PasswordHashCost)
	e.check(cfg.PasswordMinLength >= 1, "PASSWORD_MIN_LENGTH must be at least 1")
	e.check(cfg.MaxUploadSize > 0, "MAX_UPLOAD_SIZE must be positive")
	if _, err := regexp.Compile(cfg.MobilePattern); err != nil {
		e.fail(fmt.Errorf("invalid MOBILE_PATTERN: %w", err))
	}

	// Outside dev the database and bucket are mandatory; in dev their
	// absence selects in-memory stand-ins.
	if !cfg.IsDev() {
		e.check(cfg.DBAddr != "", "missing required env var: DB_ADDR")
		e.check(cfg.S3.Bucket != "", "missing required env var: S3_BUCKET")
	}
	if cfg.DBAddr != "" {
		e.fail(validatePostgresDSN(cfg.DBAddr))
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultMediaBaseURL points at the bucket on the configured endpoint,
// or at the service's own /media route when no bucket is configured.
func defaultMediaBaseURL(cfg *Config) string {
	switch {
	case cfg.S3.Bucket != "" && cfg.S3.Endpoint != "":
		return strings.TrimRight(cfg.S3.Endpoint, "/") + "/" + cfg.S3.Bucket
	case cfg.S3.Bucket != "":
		return "https://" + cfg.S3.Bucket + ".s3." + cfg.S3.Region + ".amazonaws.com"
	}
	addr := cfg.HTTPAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/media"
}

// validatePostgresDSN accepts postgres:// or postgresql:// URLs that name a database.
func validatePostgresDSN(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("invalid DB_ADDR: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("DB_ADDR must use postgres:// or postgresql://, got %q", u.Scheme)
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("DB_ADDR must include a database name")
	}
	return nil
}

// envReader parses variables and collects the failures. A variable that is
// unset or empty takes its default.
type envReader struct {
	errs []error
}

func (e *envReader) fail(err error) {
	if err != nil {
		e.errs = append(e.errs, err)
	}
}

func (e *envReader) check(ok bool, format string, args ...any) {
	if !ok {
		e.fail(fmt.Errorf(format, args...))
	}
}

func (e *envReader) required(key string) string {
	v := os.Getenv(key)
	e.check(v != "", "missing required env var: %s", key)
	return v
}

func (e *envReader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parse applies fn to a set variable, or returns def.
func parse[T any](e *envReader, key string, def T, kind string, fn func(string) (T, error)) T {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out, err := fn(v)
	if err != nil {
		e.fail(fmt.Errorf("invalid %s for %s: %q: %w", kind, key, v, err))
		return def
	}
	return out
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	return parse(e, key, def, "duration", time.ParseDuration)
}

func (e *envReader) integer(key string, def int) int {
	return parse(e, key, def, "int", strconv.Atoi)
}

func (e *envReader) bytes(key string, def int64) int64 {
	return parse(e, key, def, "int", func(v string) (int64, error) { return strconv.ParseInt(v, 10, 64) })
}

func (e *envReader) boolean(key string, def bool) bool {
	return parse(e, key, def, "bool", strconv.ParseBool)
}
