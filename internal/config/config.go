package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Redis    RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// OAuthConfig holds the Google OAuth client used as the identity provider.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// OracleConfig is the config-file judgment oracle, used when no active
// oracle config exists in the database.
type OracleConfig struct {
	Provider       string `yaml:"provider"` // gemini, openai, azure, anthropic, ollama
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RedisConfig for the optional async reputation refresh queue
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "renttrust.db",
		},
		JWT: JWTConfig{
			Secret:     "renttrust-secret-key-change-in-production",
			ExpireHour: 24,
		},
		OAuth: OAuthConfig{
			RedirectURL: "http://localhost:8080/auth/callback",
		},
		Oracle: OracleConfig{
			Provider:       "gemini",
			Model:          "gemini-1.5-flash",
			TimeoutSeconds: 15,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if clientID := os.Getenv("OAUTH_CLIENT_ID"); clientID != "" {
		c.OAuth.ClientID = clientID
	}
	if clientSecret := os.Getenv("OAUTH_CLIENT_SECRET"); clientSecret != "" {
		c.OAuth.ClientSecret = clientSecret
	}
	if redirectURL := os.Getenv("OAUTH_REDIRECT_URL"); redirectURL != "" {
		c.OAuth.RedirectURL = redirectURL
	}
	if provider := os.Getenv("ORACLE_PROVIDER"); provider != "" {
		c.Oracle.Provider = provider
	}
	if baseURL := os.Getenv("ORACLE_BASE_URL"); baseURL != "" {
		c.Oracle.BaseURL = baseURL
	}
	if apiKey := os.Getenv("ORACLE_API_KEY"); apiKey != "" {
		c.Oracle.APIKey = apiKey
	}
	// GEMINI_API_KEY is how earlier deployments configured the oracle key
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" && c.Oracle.APIKey == "" {
		c.Oracle.APIKey = apiKey
	}
	if model := os.Getenv("ORACLE_MODEL"); model != "" {
		c.Oracle.Model = model
	}
	if timeout := os.Getenv("ORACLE_TIMEOUT_SECONDS"); timeout != "" {
		if v, err := strconv.Atoi(timeout); err == nil && v > 0 {
			c.Oracle.TimeoutSeconds = v
		}
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
