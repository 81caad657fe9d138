package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	configDir  = ".minadmin"
	configFile = "config"
	configType = "yaml"

	keyringService = "minadmin"

	// EnvDSN overrides every saved profile when set.
	EnvDSN = "MINADMIN_DSN"
)

// ErrReadOnly is returned by Save for a config that must not be written back,
// such as the empty stand-in used when the file on disk could not be read.
var ErrReadOnly = errors.New("config is read-only")

// Dir returns the directory holding the config file and the default log.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// DefaultPath returns ~/.minadmin/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile+"."+configType), nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

// Load reads the configuration from path, or ~/.minadmin/config.yaml if path
// is empty. Returns an empty config if the file does not exist.
// Passwords missing from the file are looked up in the OS keyring; a profile
// whose password cannot be read keeps an empty password.
func Load(path string) (*Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType)

	// Defaults
	v.SetDefault("preferences.log_level", "info")

	cfg := &Config{}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			cfg.Preferences.LogLevel = v.GetString("preferences.log_level")
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	for i := range cfg.Connections {
		conn := &cfg.Connections[i]
		if conn.Password != "" || conn.ID == "" {
			continue
		}
		secret, err := keyring.Get(keyringService, conn.ID)
		if err != nil {
			// No secret service (headless hosts) or no entry: connect without one.
			continue
		}
		conn.Password = secret
	}

	return cfg, nil
}

// Save writes the configuration to path, or ~/.minadmin/config.yaml if path
// is empty. Passwords are moved to the OS keyring.
func Save(cfg *Config, path string) error {
	if cfg.ReadOnly {
		return ErrReadOnly
	}

	path, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	conns := make([]Connection, len(cfg.Connections))
	for i, conn := range cfg.Connections {
		if conn.Password != "" && conn.ID != "" {
			if err := keyring.Set(keyringService, conn.ID, conn.Password); err != nil {
				return fmt.Errorf("keyring %s: %w", conn.Name, err)
			}
			conn.Password = ""
		}
		conns[i] = conn
	}

	v := viper.New()
	v.SetConfigType(configType)
	v.Set("connections", conns)
	v.Set("preferences", cfg.Preferences)

	return v.WriteConfigAs(path)
}

// SaveConnection adds conn to cfg and persists it.
func SaveConnection(cfg *Config, conn Connection, path string) error {
	cfg.AddConnection(conn)
	return Save(cfg, path)
}

// DefaultConnection returns the default connection from config, or the first one.
func DefaultConnection(cfg *Config) *Connection {
	if len(cfg.Connections) == 0 {
		return nil
	}

	if cfg.Preferences.DefaultConnection != "" {
		if conn := cfg.FindConnection(cfg.Preferences.DefaultConnection); conn != nil {
			return conn
		}
	}

	return &cfg.Connections[0]
}

// ResolveDSN picks the DSN to use: an explicit DSN, then $MINADMIN_DSN, then
// the named profile, then the default profile. It returns "" when none apply.
func ResolveDSN(cfg *Config, dsn, name string) (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	if env := os.Getenv(EnvDSN); env != "" {
		return env, nil
	}
	if name != "" {
		conn := cfg.FindConnection(name)
		if conn == nil {
			return "", fmt.Errorf("unknown connection %q", name)
		}
		return conn.DSN(), nil
	}
	if conn := DefaultConnection(cfg); conn != nil {
		return conn.DSN(), nil
	}
	return "", nil
}
