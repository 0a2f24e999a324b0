package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Roster     RosterConfig     `mapstructure:"roster"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Receipts   ReceiptsConfig   `mapstructure:"receipts"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Event      EventConfig      `mapstructure:"event"`
	Bank       BankConfig       `mapstructure:"bank"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RosterConfig points at the published roster sheet CSV
type RosterConfig struct {
	CSVURL  string        `mapstructure:"csv_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LedgerConfig points at the submissions ledger web endpoint
type LedgerConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ExtractionConfig selects and configures the receipt-reading provider
type ExtractionConfig struct {
	Provider string       `mapstructure:"provider"` // "gemini" or "openai"
	Gemini   GeminiConfig `mapstructure:"gemini"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// PricingConfig holds the per-head prices in RM
type PricingConfig struct {
	Adult float64 `mapstructure:"adult"`
	Child float64 `mapstructure:"child"`
}

// ReceiptsConfig holds receipt storage settings
type ReceiptsConfig struct {
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig holds database configuration for the review audit trail
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// AdminConfig holds admin access and reporting settings
type AdminConfig struct {
	Token          string `mapstructure:"token"`
	Operator       string `mapstructure:"operator"`
	WhatsAppNumber string `mapstructure:"whatsapp_number"`
}

// EventConfig describes the event shown to attendees
type EventConfig struct {
	Title    string `mapstructure:"title" json:"title"`
	Date     string `mapstructure:"date" json:"date"`
	Location string `mapstructure:"location" json:"location"`
}

// BankConfig holds the transfer details shown on the payment form
type BankConfig struct {
	AccountName string `mapstructure:"account_name" json:"accountName"`
	AccountNo   string `mapstructure:"account_no" json:"accountNo"`
	BankName    string `mapstructure:"bank_name" json:"bankName"`
	QRCodeURL   string `mapstructure:"qr_code_url" json:"qrCodeUrl"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Boundary defaults
	viper.SetDefault("roster.timeout", 15*time.Second)
	viper.SetDefault("ledger.timeout", 30*time.Second)

	// Extraction defaults
	viper.SetDefault("extraction.provider", "gemini")
	viper.SetDefault("extraction.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("extraction.openai.model", "gpt-4o")
	viper.SetDefault("extraction.openai.temperature", 0.1)

	// Pricing defaults (RM per head)
	viper.SetDefault("pricing.adult", 30.0)
	viper.SetDefault("pricing.child", 30.0)

	// Storage defaults
	viper.SetDefault("receipts.dir", "data/receipts")
	viper.SetDefault("database.path", "data/borang.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Admin defaults
	viper.SetDefault("admin.operator", "admin")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "console")
}

func bindEnvVars() {
	_ = viper.BindEnv("extraction.gemini.api_key", "GEMINI_API_KEY")
	_ = viper.BindEnv("extraction.openai.api_key", "OPENAI_API_KEY")
	_ = viper.BindEnv("admin.token", "ADMIN_TOKEN")
	_ = viper.BindEnv("roster.csv_url", "ROSTER_CSV_URL")
	_ = viper.BindEnv("ledger.endpoint", "LEDGER_ENDPOINT")
}

// Validate checks that required configuration values are present
func (c *Config) Validate() error {
	if c.Roster.CSVURL == "" {
		return fmt.Errorf("roster.csv_url is required")
	}
	if c.Ledger.Endpoint == "" {
		return fmt.Errorf("ledger.endpoint is required")
	}
	if c.Admin.Token == "" {
		return fmt.Errorf("admin.token is required")
	}
	if c.Pricing.Adult < 0 || c.Pricing.Child < 0 {
		return fmt.Errorf("pricing must not be negative")
	}

	switch c.Extraction.Provider {
	case "gemini":
		if c.Extraction.Gemini.APIKey == "" {
			return fmt.Errorf("extraction.gemini.api_key is required for the gemini provider")
		}
	case "openai":
		if c.Extraction.OpenAI.APIKey == "" {
			return fmt.Errorf("extraction.openai.api_key is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown extraction provider: %s", c.Extraction.Provider)
	}

	return nil
}
