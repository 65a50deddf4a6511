package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	DBDriver        string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresConnStr string `envconfig:"POSTGRES_CONN_STR"`
	SQLitePath      string `envconfig:"SQLITE_PATH" default:"yatube.db"`

	SecretKey  string        `envconfig:"SECRET_KEY" default:"supersecretjwtkey"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"336h"`

	PostsPerPage  int           `envconfig:"POSTS_PER_PAGE" default:"10"`
	IndexCacheTTL time.Duration `envconfig:"INDEX_CACHE_TTL" default:"20s"`
	CacheBackend  string        `envconfig:"CACHE_BACKEND" default:"memory"`
	RedisURL      string        `envconfig:"REDIS_URL"`

	StorageBackend     string `envconfig:"STORAGE_BACKEND" default:"local"`
	MediaRoot          string `envconfig:"MEDIA_ROOT" default:"media"`
	MediaURL           string `envconfig:"MEDIA_URL" default:"/media/"`
	AWSBucket          string `envconfig:"AWS_BUCKET"`
	AWSRegion          string `envconfig:"AWS_REGION"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	FirebaseCredentialsPath string `envconfig:"FIREBASE_CREDENTIALS_PATH"`
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	c := &Config{}
	if err := envconfig.Process("yatube", c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// IsProduction reports whether verbose development behaviour should be off
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.PostgresConnStr == "" {
			return fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL environment variable not set")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	switch c.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if c.AWSBucket == "" || c.AWSRegion == "" {
			return fmt.Errorf("AWS_BUCKET and AWS_REGION must be set for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.PostsPerPage < 1 {
		return fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", c.PostsPerPage)
	}
	return nil
}
