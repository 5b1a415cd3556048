package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/garyjia/expense-approvals/internal/domain/policy"
)

// EnvPrefix prefixes every environment override, e.g. EXPENSE_SERVER_PORT
const EnvPrefix = "EXPENSE"

// Store drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Store   StoreConfig   `mapstructure:"store"`
	Policy  PolicyConfig  `mapstructure:"policy"`
	Payment PaymentConfig `mapstructure:"payment"`
	Voucher VoucherConfig `mapstructure:"voucher"`
	MCP     MCPConfig     `mapstructure:"mcp"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Version      string        `mapstructure:"version"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// StoreConfig selects and tunes the workflow store
type StoreConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// PolicyConfig holds the spending thresholds
type PolicyConfig struct {
	ItemLimit            float64            `mapstructure:"item_limit"`
	ReceiptThreshold     float64            `mapstructure:"receipt_threshold"`
	ManagerThreshold     float64            `mapstructure:"manager_threshold"`
	ManagerApprovalLimit float64            `mapstructure:"manager_approval_limit"`
	FinanceApprovalLimit float64            `mapstructure:"finance_approval_limit"`
	CategoryLimits       map[string]float64 `mapstructure:"category_limits"`
}

// PaymentConfig holds settlement defaults
type PaymentConfig struct {
	DefaultMethod  string `mapstructure:"default_method"`
	SettlementDays int    `mapstructure:"settlement_days"`
}

// VoucherConfig holds voucher export configuration. An empty ArchiveDir disables archiving.
type VoucherConfig struct {
	CompanyName string `mapstructure:"company_name"`
	ArchiveDir  string `mapstructure:"archive_dir"`
}

// MCPConfig names the MCP server
type MCPConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// LoadDotEnv exports the variables of a .env file without overriding the
// existing environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads configPath (optional when empty), applies defaults and EXPENSE_* overrides
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	rules := policy.DefaultRules()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 4002)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.version", "1.0.0")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.path", "data/expenses.db")
	v.SetDefault("store.max_open_conns", 4)
	v.SetDefault("store.max_idle_conns", 4)
	v.SetDefault("store.conn_max_lifetime", 0)

	v.SetDefault("policy.item_limit", rules.ItemLimit)
	v.SetDefault("policy.receipt_threshold", rules.ReceiptThreshold)
	v.SetDefault("policy.manager_threshold", rules.ManagerThreshold)
	v.SetDefault("policy.manager_approval_limit", rules.ManagerApprovalLimit)
	v.SetDefault("policy.finance_approval_limit", rules.FinanceApprovalLimit)

	v.SetDefault("payment.default_method", "direct_deposit")
	v.SetDefault("payment.settlement_days", 2)

	v.SetDefault("voucher.company_name", "Expense Approvals")
	v.SetDefault("voucher.archive_dir", "")

	v.SetDefault("mcp.name", "expense-approvals")
	v.SetDefault("mcp.version", "1.0.0")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("store.driver must be %s or %s, got %q", DriverMemory, DriverSQLite, c.Store.Driver)
	}

	p := c.Policy
	for name, value := range map[string]float64{
		"policy.item_limit":             p.ItemLimit,
		"policy.receipt_threshold":      p.ReceiptThreshold,
		"policy.manager_threshold":      p.ManagerThreshold,
		"policy.manager_approval_limit": p.ManagerApprovalLimit,
		"policy.finance_approval_limit": p.FinanceApprovalLimit,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if p.ManagerApprovalLimit > p.FinanceApprovalLimit {
		return fmt.Errorf("policy.manager_approval_limit must not exceed policy.finance_approval_limit")
	}

	if c.Payment.SettlementDays < 0 {
		return fmt.Errorf("payment.settlement_days must not be negative")
	}

	return nil
}

// Rules converts the policy section into validator and router thresholds
func (c *Config) Rules() policy.Rules {
	var limits map[string]float64
	if len(c.Policy.CategoryLimits) > 0 {
		limits = make(map[string]float64, len(c.Policy.CategoryLimits))
		for category, limit := range c.Policy.CategoryLimits {
			limits[category] = limit
		}
	}
	return policy.Rules{
		ItemLimit:            c.Policy.ItemLimit,
		ReceiptThreshold:     c.Policy.ReceiptThreshold,
		ManagerThreshold:     c.Policy.ManagerThreshold,
		ManagerApprovalLimit: c.Policy.ManagerApprovalLimit,
		FinanceApprovalLimit: c.Policy.FinanceApprovalLimit,
		CategoryLimits:       limits,
	}
}
