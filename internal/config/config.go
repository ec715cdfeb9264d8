package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"

	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

type Config struct {
	Port            int           `env:"PORT,default=5000"`
	GinMode         string        `env:"GIN_MODE,default=release"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	StoreDriver string `env:"STORE_DRIVER,default=postgres"`

	// SQL stores. DatabaseURL wins over the individual DB_* settings.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBPort      int    `env:"DB_PORT,default=5432"`
	DBUser      string `env:"DB_USER"`
	DBPass      string `env:"DB_PASS"`
	DBName      string `env:"DB_NAME,default=jobportal"`

	// MongoDB. MongoURI wins over DB_USER/DB_PASS/MONGO_HOST.
	MongoURI      string `env:"MONGO_URI"`
	MongoHost     string `env:"MONGO_HOST"`
	MongoDatabase string `env:"MONGO_DATABASE,default=jobsDB"`

	AuthProvider            string `env:"AUTH_PROVIDER,default=firebase"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE,default=job-portal-admin-service.json"`
	JWTSecret               string `env:"JWT_SECRET"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StorePostgres, StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AuthProvider {
	case AuthFirebase:
		if c.FirebaseCredentialsFile == "" {
			return errors.New("FIREBASE_CREDENTIALS_FILE is required for the firebase auth provider")
		}
	case AuthJWT:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required for the jwt auth provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SQLDSN returns the gorm DSN for the configured SQL driver.
func (c *Config) SQLDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.StoreDriver == StoreSQLite {
		return "jobportal.db"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort)
}

func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	if c.MongoHost == "" {
		return "mongodb://localhost:27017"
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.MongoHost,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}
