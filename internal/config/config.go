package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env          string `env:"ENV" env-required:"true"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer   HttpServer
	Database     Database
	Auth         AuthConfig
	Verification VerificationConfig
	SMTP         SMTPConfig
	Resend       ResendConfig
	Email        EmailConfig
	Cache        Cache
	Queue        QueueConfig
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	AllowedOrigins []string      `env:"HTTP_CORS_ORIGINS" env-default:"*" env-description:"comma separated list of allowed origins"`
}

type Database struct {
	Driver             string        `env:"DB_DRIVER" env-default:"mysql" env-description:"one of mysql/postgres"`
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	SSLMode            string        `env:"DB_SSL_MODE" env-default:"disable" env-description:"postgres only"`
	TimeZone           string        `env:"DB_TIMEZONE" env-default:"UTC"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
	Migrate            bool          `env:"DB_MIGRATE" env-default:"false" env-description:"apply embedded migrations on startup"`
}

type AuthConfig struct {
	Session                SessionConfig
	BcryptCost             int           `env:"AUTH_BCRYPT_COST" env-default:"10"`
	VerificationCodeLength int           `env:"AUTH_VERIFICATION_CODE_LENGTH" env-default:"4"`
	VerificationCodeTTL    time.Duration `env:"AUTH_VERIFICATION_CODE_TTL" env-default:"10m"`
}

// SessionConfig holds the secret that signs registration sessions. The key must stay
// the same for the whole lifetime of a deployment, rotating it invalidates every
// session that is still in flight.
type SessionConfig struct {
	SigningKey string        `env:"SESSION_SIGNING_KEY" env-required:"true"`
	TTL        time.Duration `env:"SESSION_TTL" env-default:"15m"`
}

type VerificationConfig struct {
	Store     string        `env:"VERIFICATION_STORE" env-default:"sql" env-description:"one of sql/redis"`
	Retention time.Duration `env:"VERIFICATION_RETENTION" env-default:"15m" env-description:"how long redis keeps a record after it expired"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	From string `env:"SMTP_FROM"`
	Pass string `env:"SMTP_PASS"`
}

type ResendConfig struct {
	APIKey string `env:"RESEND_API_KEY"`
	From   string `env:"RESEND_FROM"`
}

type EmailConfig struct {
	Provider       string        `env:"EMAIL_PROVIDER" env-default:"smtp" env-description:"one of smtp/resend/log"`
	SendTimeout    time.Duration `env:"EMAIL_SEND_TIMEOUT" env-default:"10s"`
	WelcomeEnabled bool          `env:"EMAIL_WELCOME_ENABLED" env-default:"false"`
	Templates      EmailTemplates
}

type EmailTemplates struct {
	Verification string `env:"EMAIL_TEMPLATE_VERIFICATION" env-default:"verification.html"`
	Welcome      string `env:"EMAIL_TEMPLATE_WELCOME" env-default:"welcome.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-description:"redis cluster nodes: ['172.27.29.90:7000','172.27.29.91:7001'', '172.27.29.92:7002'']"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

type QueueConfig struct {
	Concurrency int `env:"QUEUE_CONCURRENCY" env-default:"10"`
}

// NeedsRedis reports whether any enabled component talks to redis.
func (c *Config) NeedsRedis() bool {
	return c.Verification.Store == "redis" || c.Email.WelcomeEnabled
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Verification.Store {
	case "sql", "redis":
	default:
		return fmt.Errorf("unsupported VERIFICATION_STORE %q", c.Verification.Store)
	}

	switch c.Email.Provider {
	case "smtp":
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			return fmt.Errorf("smtp provider requires SMTP_HOST and SMTP_FROM")
		}
	case "resend":
		if c.Resend.APIKey == "" || c.Resend.From == "" {
			return fmt.Errorf("resend provider requires RESEND_API_KEY and RESEND_FROM")
		}
	case "log":
		if c.Env == EnvProd {
			return fmt.Errorf("log email provider is not allowed in %s", EnvProd)
		}
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.Email.Provider)
	}

	if c.Auth.VerificationCodeLength < 4 || c.Auth.VerificationCodeLength > 10 {
		return fmt.Errorf("AUTH_VERIFICATION_CODE_LENGTH must be within 4..10, got %d", c.Auth.VerificationCodeLength)
	}

	if c.NeedsRedis() && !c.hasRedisAddress() {
		return fmt.Errorf("redis address is required when redis verification store or welcome emails are enabled")
	}

	return nil
}

func (c *Config) hasRedisAddress() bool {
	return c.Cache.Redis.Address != "" || len(c.Cache.RedisCluster.Addresses) > 0
}

// ValidateWorker checks what the queue worker needs on top of the shared
// settings, it always consumes from redis.
func (c *Config) ValidateWorker() error {
	if !c.hasRedisAddress() {
		return fmt.Errorf("redis address is required to run the worker")
	}

	return nil
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// missing .env is fine, real environment variables still apply
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}

	return cfg
}
