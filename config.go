package salespilot

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/salespilot/salespilot/stores"
)

// Config holds the service configuration. Values come from an optional TOML
// file, overridden by environment variables, overridden by the With builders.
type Config struct {
	ServerAddr      string `toml:"server_addr"`
	AgentName       string `toml:"agent_name"`
	ModelDeployment string `toml:"model_deployment"`
	FoundryEndpoint string `toml:"foundry_endpoint"`
	StoreType       string `toml:"store_type"`
	StoreDSN        string `toml:"store_dsn"`

	Store stores.MessageStore `toml:"-"`
}

// NewConfig returns a configuration with defaults applied.
func NewConfig() *Config {
	return &Config{
		ServerAddr:      ":8080",
		AgentName:       "sales-planning-agent",
		ModelDeployment: "gpt-4o",
		StoreType:       "sqlite",
		StoreDSN:        "chat_history.sqlite",
	}
}

// LoadConfig reads the TOML file at path when it exists, then applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	c := NewConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, c); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.ServerAddr = v
	}
	if v := os.Getenv("AGENT_NAME"); v != "" {
		c.AgentName = v
	}
	if v := os.Getenv("MODEL_DEPLOYMENT"); v != "" {
		c.ModelDeployment = v
	}
	if v := os.Getenv("FOUNDRY_ENDPOINT"); v != "" {
		c.FoundryEndpoint = v
	}
	if v := os.Getenv("STORE_TYPE"); v != "" {
		c.StoreType = v
	}
	if v := os.Getenv("STORE_DSN"); v != "" {
		c.StoreDSN = v
	}

	return c, nil
}

// OpenStore connects the message store described by StoreType and StoreDSN
// and attaches it to the configuration.
func (c *Config) OpenStore() (stores.MessageStore, error) {
	if c.Store != nil {
		return c.Store, nil
	}
	store, err := stores.NewStore(stores.NewStoreConfig(c.StoreType, c.StoreDSN))
	if err != nil {
		return nil, err
	}
	c.Store = store
	return store, nil
}

// WithServerAddr sets the listen address
func (c *Config) WithServerAddr(addr string) *Config {
	c.ServerAddr = addr
	return c
}

// WithStore sets the message store
func (c *Config) WithStore(store stores.MessageStore) *Config {
	c.Store = store
	return c
}

// WithSQLiteStore sets a SQLite store with the specified database path
func (c *Config) WithSQLiteStore(dbPath string) *Config {
	c.StoreType = "sqlite"
	c.StoreDSN = dbPath
	c.Store = nil
	return c
}

// WithPostgresStore sets a PostgreSQL store with the specified DSN
func (c *Config) WithPostgresStore(dsn string) *Config {
	c.StoreType = "postgres"
	c.StoreDSN = dsn
	c.Store = nil
	return c
}
