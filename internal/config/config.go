package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	ContactsBackendDatabase = "database"
	ContactsBackendFile     = "file"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Contacts struct {
		Backend string `yaml:"backend"` // database, file
		File    string `yaml:"file"`    // путь к contacts.json для backend=file
	} `yaml:"contacts"`

	JWT struct {
		Secret   string `yaml:"secret"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"jwt"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		Verification bool   `yaml:"verification"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		BaseURL      string `yaml:"base_url"` // для ссылок в письмах
	} `yaml:"email"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3
		BasePath  string `yaml:"base_path"`  // для local
		BaseURL   string `yaml:"base_url"`   // публичный URL
		Bucket    string `yaml:"bucket"`     // для s3
		Region    string `yaml:"region"`     // для s3
		AccessKey string `yaml:"access_key"` // для s3
		SecretKey string `yaml:"secret_key"` // для s3
		Endpoint  string `yaml:"endpoint"`   // MinIO / R2 / custom S3
	} `yaml:"storage"`

	Upload struct {
		MaxSize int64 `yaml:"max_size"` // байты
	} `yaml:"upload"`

	Avatar struct {
		Size         int `yaml:"size"`
		MaxDimension int `yaml:"max_dimension"` // лимит ширины/высоты исходника
	} `yaml:"avatar"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Validation struct {
		AllowedTLDs []string `yaml:"allowed_tlds"`
	} `yaml:"validation"`
}

// Load читает .env (если есть), затем YAML по пути path (если файл существует),
// затем применяет переменные окружения поверх и выставляет значения по умолчанию.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// конфиг-файл не обязателен, всё можно задать через окружение
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Contacts.Backend, "CONTACTS_BACKEND")
	setString(&cfg.Contacts.File, "CONTACTS_FILE")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTLHours, "JWT_TTL_HOURS")
	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")
	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	if v, ok := os.LookupEnv("EMAIL_ENABLED"); ok {
		cfg.Email.Enabled, _ = strconv.ParseBool(v)
	}
	if v, ok := os.LookupEnv("EMAIL_VERIFICATION"); ok {
		cfg.Email.Verification, _ = strconv.ParseBool(v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Contacts.Backend == "" {
		cfg.Contacts.Backend = ContactsBackendDatabase
	}
	if cfg.Contacts.File == "" {
		cfg.Contacts.File = "./data/contacts.json"
	}
	if cfg.JWT.TTLHours == 0 {
		cfg.JWT.TTLHours = 14 * 24
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.BaseURL == "" {
		cfg.Email.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./public"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 1 << 20 // 1MB
	}
	if cfg.Avatar.Size == 0 {
		cfg.Avatar.Size = 250
	}
	if cfg.Avatar.MaxDimension == 0 {
		cfg.Avatar.MaxDimension = 4096
	}
	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	if c.Database.DSN == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	switch c.Contacts.Backend {
	case ContactsBackendDatabase, ContactsBackendFile:
	default:
		return fmt.Errorf("unsupported contacts backend: %s", c.Contacts.Backend)
	}
	if c.Email.Verification && !c.Email.Enabled {
		return errors.New("email verification requires email.enabled")
	}
	return nil
}

// Address возвращает host:port для HTTP сервера
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
