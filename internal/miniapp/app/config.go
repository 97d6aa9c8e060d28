package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/bridge"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	// BackendURL is the base URL of the mini-app backend.
	BackendURL     string        `env:"MINIAPP_BACKEND_URL,required"`
	BackendTimeout time.Duration `env:"MINIAPP_BACKEND_TIMEOUT" envDefault:"20s"`
	BackendRetries int           `env:"MINIAPP_BACKEND_RETRIES" envDefault:"2"`
	// TokenField and TokenAliases are the form fields the login token is posted under.
	TokenField     string        `env:"MINIAPP_TOKEN_FIELD" envDefault:"token"`
	TokenAliases   []string      `env:"MINIAPP_TOKEN_ALIASES" envDefault:"loginToken" envSeparator:","`

	// TokenKey is the URL parameter carrying the login token.
	TokenKey      string `env:"MINIAPP_TOKEN_KEY" envDefault:"loginToken"`
	// ContextMarker is the fragment route of launches from the banking app.
	ContextMarker string `env:"MINIAPP_CONTEXT_MARKER" envDefault:"MBAPP"`
	RequireMarker bool   `env:"MINIAPP_REQUIRE_MARKER" envDefault:"false"`
	// LoginURL is the external login entry point. It may be relative.
	LoginURL      string `env:"MINIAPP_LOGIN_URL"`
	// BridgePort is webview or log.
	BridgePort    string `env:"MINIAPP_BRIDGE_PORT" envDefault:"webview"`

	VerifyGrace     time.Duration `env:"MINIAPP_VERIFY_GRACE" envDefault:"1200ms"`
	ExchangeTimeout time.Duration `env:"MINIAPP_EXCHANGE_TIMEOUT" envDefault:"20s"`
	TransactionTTL  time.Duration `env:"MINIAPP_TRANSACTION_TTL" envDefault:"10m"`
	CatalogTTL      time.Duration `env:"MINIAPP_CATALOG_TTL" envDefault:"1m"`

	Issuer            string        `env:"MINIAPP_ISSUER" envDefault:"jbaai-miniapp"`
	// TabKeyFile is an Ed25519 PEM key for tab cookies. Generated when empty.
	TabKeyFile        string        `env:"MINIAPP_TAB_KEY_FILE"`
	TabTTL            time.Duration `env:"MINIAPP_TAB_TTL" envDefault:"12h"`
	CookieSecure      bool          `env:"MINIAPP_COOKIE_SECURE" envDefault:"true"`
	// SessionSecretFile or SessionSecret seals backend session ids at rest.
	SessionSecretFile string        `env:"MINIAPP_SESSION_SECRET_FILE"`
	SessionSecret     string        `env:"MINIAPP_SESSION_SECRET"`
	DatabaseFile      string        `env:"MINIAPP_DATABASE_FILE" envDefault:"miniapp.db"`

	Env                  string        `env:"ENV" envDefault:"dev"`                   // Environment (dev, staging, prod)
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`            // Log level (debug, info, warn, error)
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`           // Log format (json, text)
	Port                 int           `env:"PORT" envDefault:"8080"`                 // HTTP server port
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"` // Graceful shutdown timeout
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`  // Housekeeping interval
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

// LoadConfigFrom reads the configuration from environ instead of the process
// environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	return parseConfig(env.Options{Environment: environ})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error

	if _, err := bridge.New(c.BridgePort); err != nil {
		errs = append(errs, err)
	}
	if c.ExchangeTimeout <= 0 {
		errs = append(errs, errors.New("MINIAPP_EXCHANGE_TIMEOUT must be positive"))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, errors.New("MINIAPP_BACKEND_TIMEOUT must be positive"))
	}
	if c.VerifyGrace < 0 {
		errs = append(errs, errors.New("MINIAPP_VERIFY_GRACE must not be negative"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}
