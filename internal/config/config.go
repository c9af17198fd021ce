package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const FileName = "ido.yml"

// Config models ido.yml.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		BasePath    string   `yaml:"base_path"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		Workspace string `yaml:"workspace"`
		Name      string `yaml:"name"`
	} `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Profiles Profiles `yaml:"profiles"`
	Log      struct {
		JSON  bool `yaml:"json"`
		Debug bool `yaml:"debug"`
	} `yaml:"log"`
}

type Auth struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	PasswordMinLength int           `yaml:"password_min_length"`
	BcryptCost        int           `yaml:"bcrypt_cost"`
}

type Profiles struct {
	MaxPhotos int `yaml:"max_photos"`
	MinAge    int `yaml:"min_age"`
	MaxAge    int `yaml:"max_age"`
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("config.auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config.auth.token_ttl must be positive")
	}
	if c.Auth.PasswordMinLength < 1 {
		return fmt.Errorf("config.auth.password_min_length must be at least 1")
	}
	if c.Auth.BcryptCost < 0 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("config.auth.bcrypt_cost must be between 0 and 31")
	}
	if c.Profiles.MaxPhotos < 1 {
		return fmt.Errorf("config.profiles.max_photos must be at least 1")
	}
	if c.Profiles.MinAge < 1 || c.Profiles.MaxAge < c.Profiles.MinAge {
		return fmt.Errorf("config.profiles age bounds invalid: min %d max %d", c.Profiles.MinAge, c.Profiles.MaxAge)
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with /")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, FileName)
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with ido config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the default Config.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultTemplate), &cfg); err != nil {
		panic(fmt.Sprintf("default config template: %v", err))
	}
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Omitted keys keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// YAML renders c back to its file form.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

const defaultTemplate = `server:
  addr: 127.0.0.1:8000
  base_path: /v1
  cors_origins: []

database:
  workspace: .
  name: ido.db

auth:
  # override with IDO_JWT_SECRET outside development
  jwt_secret: dev-secret-change-me
  token_ttl: 24h
  password_min_length: 6
  bcrypt_cost: 10

profiles:
  max_photos: 6
  min_age: 18
  max_age: 100

log:
  json: false
  debug: false
`
