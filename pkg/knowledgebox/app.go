// Package knowledgebox wires the knowledge box service into an HTTP API:
// configuration, command parsing, routing, JWT authentication, and the
// server lifecycle.
package knowledgebox

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/knowledgebox/knowledgebox/pkg/logger"
	"github.com/knowledgebox/knowledgebox/pkg/service"
	"github.com/knowledgebox/knowledgebox/pkg/store"
	"github.com/knowledgebox/knowledgebox/pkg/store/memory"
)

// DefaultJWTSecret is the development signing key used when no secret is
// configured. Matches the key the test-token endpoints have always issued
// against; never deploy with it.
const DefaultJWTSecret = "your-256-bit-secret-key-here-make-it-long-enough-for-security-purposes"

// Config holds application configuration. Values come from an optional
// YAML file, environment variables, and command-line flags, in increasing
// order of precedence.
type Config struct {
	// ServerPort is the TCP port the HTTP server binds to.
	ServerPort string `yaml:"port"`

	// Anonymous disables bearer-token authentication. Every request is
	// treated as the fixed identity "anonymous", so all records share one
	// owner and ownership checks pass trivially. This reproduces the
	// behavior of the original unauthenticated deployment under the same
	// authorization policy.
	Anonymous bool `yaml:"anonymous"`

	// ReadOnly starts the application in read-only maintenance mode.
	ReadOnly bool `yaml:"read_only"`

	// JWT settings for bearer-token verification and test-token issuance.
	JWTSecret     string `yaml:"jwt_secret"`
	JWTIssuer     string `yaml:"jwt_issuer"`
	ExpiryMinutes int    `yaml:"expiry_minutes"`

	// LogPath, when set, appends structured logs to a file instead of stdout.
	LogPath string `yaml:"log_path"`
}

// LoadConfigFile reads configuration from a YAML file. Missing values keep
// their zero value; ApplyDefaults fills them in afterwards.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// ApplyDefaults fills unset fields with environment-variable fallbacks and
// built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = getEnv("KNOWLEDGEBOX_PORT", "8080")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = getEnv("KNOWLEDGEBOX_JWT_SECRET", DefaultJWTSecret)
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = os.Getenv("KNOWLEDGEBOX_JWT_ISSUER")
	}
	if c.ExpiryMinutes <= 0 {
		c.ExpiryMinutes = 60
	}
}

// TokenTTL returns the lifetime of issued test tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

// App holds the application state: the store handle, the record service,
// and the logger. The store handle is passed explicitly into the service;
// there is no ambient global state.
type App struct {
	store    store.Store
	service  *service.Service
	config   *Config
	log      zerolog.Logger
	logData  *logger.LogData
	readOnly bool // Runtime read-only state (can be toggled)
}

// New creates a new application instance with an empty in-memory store.
func New(config *Config) (*App, error) {
	config.ApplyDefaults()

	logData, err := logger.New().FromPath(config.LogPath).Make()
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	app := &App{
		config:   config,
		log:      logData.Logger,
		logData:  logData,
		readOnly: config.ReadOnly,
	}

	// Wrap the store with read-only protection; the service only ever
	// sees the wrapped handle.
	app.store = store.NewReadOnlyStore(memory.NewMemoryStore(), app.IsReadOnly)
	app.service = service.New(app.store, logData.Logger)

	return app, nil
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.logData != nil {
		return a.logData.Close()
	}
	return nil
}

// Store returns the underlying store (useful for testing).
func (a *App) Store() store.Store {
	return a.store
}

// Service returns the record service (useful for testing).
func (a *App) Service() *service.Service {
	return a.service
}

// SetReadOnly toggles read-only maintenance mode at runtime. Write
// operations are rejected at the store wrapper while reads continue.
func (a *App) SetReadOnly(readOnly bool) {
	a.readOnly = readOnly
	a.log.Info().Bool("read_only", readOnly).Msg("application read-only mode changed")
}

// IsReadOnly reports whether the application is in read-only mode. Checked
// by the store wrapper on every write, so it must stay cheap.
func (a *App) IsReadOnly() bool {
	return a.readOnly
}

// getEnv retrieves an environment variable with a fallback default. Empty
// values are treated the same as unset ones.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
