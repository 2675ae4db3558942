package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Ships      ShipsConfig      `mapstructure:"ships"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// EthereumConfig contains source-chain client settings
type EthereumConfig struct {
	RPCURL          string        `mapstructure:"rpc_url"`
	ChainID         int64         `mapstructure:"chain_id"`
	FactoryContract string        `mapstructure:"factory_contract"`
	PrivateKey      string        `mapstructure:"private_key"`
	GasLimit        uint64        `mapstructure:"gas_limit"`
	MaxGasPrice     string        `mapstructure:"max_gas_price"`
	PollingInterval time.Duration `mapstructure:"polling_interval"`
	ReceiptTimeout  time.Duration `mapstructure:"receipt_timeout"`
}

// ShipsConfig contains pooled-transfer operation settings.
// Amounts are decimal strings denominated in the native unit.
type ShipsConfig struct {
	MaxTransferAmount   string `mapstructure:"max_transfer_amount"`
	FeeCeiling          string `mapstructure:"fee_ceiling"`
	FallbackCreationFee string `mapstructure:"fallback_creation_fee"`
	BoardingFee         string `mapstructure:"boarding_fee"`
}

// RedisConfig contains ledger persistence settings
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Ethereum defaults
	viper.SetDefault("ethereum.gas_limit", 500000)
	viper.SetDefault("ethereum.polling_interval", "2s")
	viper.SetDefault("ethereum.receipt_timeout", "60s")

	// Ships defaults
	viper.SetDefault("ships.max_transfer_amount", "100")
	viper.SetDefault("ships.fee_ceiling", "0.1")
	viper.SetDefault("ships.fallback_creation_fee", "0.01")
	viper.SetDefault("ships.boarding_fee", "0.001")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.key_prefix", "ccipships")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_port", 9090)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")
}

func validate(config *Config) error {
	if config.Ethereum.RPCURL == "" {
		return fmt.Errorf("ethereum.rpc_url is required")
	}
	if config.Ethereum.FactoryContract == "" {
		return fmt.Errorf("ethereum.factory_contract is required")
	}
	if config.Ethereum.ChainID == 0 {
		return fmt.Errorf("ethereum.chain_id is required")
	}
	if config.Redis.Host == "" {
		return fmt.Errorf("redis.host is required")
	}
	return nil
}

// Addr returns the host:port address for the Redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
