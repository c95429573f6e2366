package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Grpc     GrpcConfig     `mapstructure:"grpc"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"` // public site URL, used for the sitemap
}

// DatabaseConfig selects the document store. URI is either a SQLite file
// path or a mongodb:// / mongodb+srv:// connection string.
type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"` // MongoDB database name
}

type AdminConfig struct {
	Key string `mapstructure:"key"`
}

type SyncConfig struct {
	TCPAddr string `mapstructure:"tcp_addr"` // empty disables the raw TCP feed
}

type GrpcConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
	Path   string `mapstructure:"path"`   // directory for rotated log files; empty = stdout only
}

// Load reads configuration from an optional .env file, an optional config
// file and TELUGUDB_* environment variables.
// Priority: environment variables > config file > defaults.
func Load(configPath string) (*Config, error) {
	// .env is a convenience for local runs; a missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.telugudb")
	}

	v.SetEnvPrefix("TELUGUDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names the web app deployment already uses.
	_ = v.BindEnv("admin.key", "TELUGUDB_ADMIN_KEY", "ADMIN_KEY")
	_ = v.BindEnv("database.uri", "TELUGUDB_DATABASE_URI", "MONGODB_URI")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:3000")

	v.SetDefault("database.uri", DefaultDBPath())
	v.SetDefault("database.name", "telugudb")

	v.SetDefault("admin.key", "")

	v.SetDefault("sync.tcp_addr", "")
	v.SetDefault("grpc.addr", ":9090")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
}

// Validate rejects configurations the server cannot run safely with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Admin.Key) == "" {
		errs = append(errs, errors.New("admin.key is required (set TELUGUDB_ADMIN_KEY or ADMIN_KEY)"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.URI) == "" {
		errs = append(errs, errors.New("database.uri is required"))
	}
	return errors.Join(errs...)
}

// Address returns the HTTP listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
