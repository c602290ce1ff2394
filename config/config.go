package config

import (
	"strings"
	"time"

	"atelier-backend/utils"
)

// Config is read once at startup and passed down by value.
type Config struct {
	Port      string
	AppEnv    string
	DB        DatabaseConfig
	Catalog   CatalogConfig
	Numbering NumberingConfig

	ProfileCacheTTL      time.Duration
	CORSAllowedOrigins   []string
	SlowRequestThreshold time.Duration
}

type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
	// AutoMigrate is off when the schema is managed by external migration scripts.
	AutoMigrate     bool
}

type CatalogConfig struct {
	LookupRetries int
	LookupBackoff time.Duration
}

type NumberingConfig struct {
	DefaultPad    int
	DefaultPrefix string
	// Prefixes maps a sequence name to the prefix stored when the sequence is first used.
	Prefixes map[string]string
}

// Load reads the environment. Call godotenv.Load first if a .env file should apply.
func Load() Config {
	return Config{
		Port:   utils.EnvString("PORT", "8080"),
		AppEnv: utils.EnvString("APP_ENV", "development"),
		DB: DatabaseConfig{
			Driver:          strings.ToLower(utils.EnvString("DB_DRIVER", "postgres")),
			URL:             utils.EnvString("DB_URL", ""),
			MaxOpenConns:    utils.EnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    utils.EnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: utils.EnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowQuery:       utils.EnvDuration("DB_SLOW_QUERY", time.Second),
			AutoMigrate:     utils.EnvBool("DB_AUTO_MIGRATE", true),
		},
		Catalog: CatalogConfig{
			LookupRetries: utils.EnvInt("CATALOG_LOOKUP_RETRIES", 3),
			LookupBackoff: utils.EnvDuration("CATALOG_LOOKUP_BACKOFF", 50*time.Millisecond),
		},
		Numbering: NumberingConfig{
			DefaultPad:    utils.EnvInt("SEQUENCE_DEFAULT_PAD", 4),
			DefaultPrefix: utils.EnvString("SEQUENCE_DEFAULT_PREFIX", ""),
			Prefixes: utils.EnvMap("SEQUENCE_PREFIXES", map[string]string{
				"invoice": "FA-",
				"quote":   "DE-",
			}),
		},
		ProfileCacheTTL: utils.EnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		CORSAllowedOrigins: utils.EnvList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
		}),
		SlowRequestThreshold: utils.EnvDuration("SLOW_REQUEST_THRESHOLD", 200*time.Millisecond),
	}
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}
