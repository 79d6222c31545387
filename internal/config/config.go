package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Common struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Addr       string `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
	PublicDir  string `env:"PUBLIC_DIR" envDefault:"public"`
}

// StoreConfig selects the record store backend: file, postgres or mongo.
type StoreConfig struct {
	Backend     string `env:"STORE_BACKEND" envDefault:"file"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	DatabaseURL string `env:"DATABASE_URL"`
	MongoURL    string `env:"MONGO_URL"`
	MongoDB     string `env:"MONGO_DB" envDefault:"tooniwear"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET,required,notEmpty"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`
}

type CheckoutConfig struct {
	OrderPrefix string        `env:"ORDER_PREFIX" envDefault:"CN"`
	RateMax     int           `env:"CHECKOUT_RATE_MAX" envDefault:"3"`
	RateWindow  time.Duration `env:"CHECKOUT_RATE_WINDOW" envDefault:"60s"`
	AuthRateMax int           `env:"AUTH_RATE_MAX" envDefault:"10"`
	StoreEmail  string        `env:"STORE_EMAIL"`
	StorePhone  string        `env:"STORE_PHONE"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
}

type RabbitConfig struct {
	URL      string `env:"RABBIT_URL"`
	Exchange string `env:"RABBIT_EXCHANGE" envDefault:"orders"`
}

type Config struct {
	Common   Common
	HTTP     HTTPConfig
	Store    StoreConfig
	Session  SessionConfig
	Checkout CheckoutConfig
	Redis    RedisConfig
	Rabbit   RabbitConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ToolConfig is the subset used by the operator CLI, which never signs sessions.
type ToolConfig struct {
	Common   Common
	Store    StoreConfig
	Checkout CheckoutConfig
	Redis    RedisConfig
}

func LoadTool() (ToolConfig, error) {
	_ = godotenv.Load()

	var cfg ToolConfig
	if err := env.Parse(&cfg); err != nil {
		return ToolConfig{}, err
	}
	return cfg, nil
}
