package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"kkp-asta/pkg/logger"
)

// Config holds every setting the service reads from the environment. Nothing
// else in the codebase should call os.Getenv.
type Config struct {
	AppName string `env:"APP_NAME,default=KKP-ASTA"`
	AppEnv  string `env:"APP_ENV,default=dev"`

	HTTPPort    string `env:"HTTP_PORT,default=3000"`
	CORSOrigins string `env:"CORS_ORIGINS,default=*"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBPort      string `env:"DB_PORT,default=5432"`
	DBUser      string `env:"DB_USER,default=postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME,default=kkp_asta"`
	DBDebug     bool   `env:"DB_DEBUG,default=false"`

	Timezone string `env:"TIMEZONE,default=Asia/Jakarta"`

	JWTSecret   string `env:"JWT_SECRET,default=change-me-in-production"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS,default=24"`

	TaxonomyPath      string `env:"TAXONOMY_PATH"`
	LowStockThreshold int    `env:"LOW_STOCK_THRESHOLD,default=10"`

	OwnerEmail    string `env:"OWNER_EMAIL,default=owner@kkp-asta.local"`
	OwnerPassword string `env:"OWNER_PASSWORD,default=owner123"`
}

// Load reads an optional .env file at path and maps the environment onto a
// Config.
func Load(path string) (*Config, error) {
	if path != "" {
		logger.Info("loading env file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to Config")
	}
	if c.JWTTTLHours <= 0 {
		c.JWTTTLHours = 24
	}
	if c.LowStockThreshold <= 0 {
		c.LowStockThreshold = 10
	}
	return c, nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the
// DB_* settings. The session timezone is always Timezone unless DATABASE_URL
// names one, so DATE() on timestamps groups by local days.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return withTimezone(c.DatabaseURL, c.Timezone)
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.Timezone,
	)
}

// Location resolves Timezone, falling back to WIB (UTC+7) when tzdata is
// missing on the host.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logger.Warn("timezone not available, using UTC+7", "timezone", c.Timezone, "error", err)
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func withTimezone(dsn, tz string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		for key := range q {
			if strings.EqualFold(key, "timezone") {
				return dsn
			}
		}
		q.Set("timezone", tz)
		u.RawQuery = q.Encode()
		return u.String()
	}
	if strings.Contains(strings.ToLower(dsn), "timezone=") {
		return dsn
	}
	return dsn + " TimeZone=" + tz
}
