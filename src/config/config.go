package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Logging         LoggingConfig        `mapstructure:"logging"`
	Auth            AuthConfig           `mapstructure:"auth"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Ledger          LedgerConfig         `mapstructure:"ledger"`
	Notifications   NotificationsConfig  `mapstructure:"notifications"`
	AWS             AWSConfig            `mapstructure:"aws"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type           ServiceType `mapstructure:"type"`
	Port           string      `mapstructure:"port"`
	AllowedOrigins []string    `mapstructure:"allowedOrigins"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	File     string `mapstructure:"file"`
	JSONMode bool   `mapstructure:"json"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLDriver string

const (
	DriverMemory   SQLDriver = "memory"
	DriverPostgres SQLDriver = "postgres"
	DriverSQLite   SQLDriver = "sqlite"
	DriverMySQL    SQLDriver = "mysql"
)

type SQLConfig struct {
	Host             string    `mapstructure:"host"`
	Port             string    `mapstructure:"port"`
	Username         string    `mapstructure:"username"`
	Password         string    `mapstructure:"password"`
	PasswordSecretID string    `mapstructure:"passwordSecretId"`
	Driver           SQLDriver `mapstructure:"driver"`
	Database         string    `mapstructure:"database"`
	ConnectionString string    `mapstructure:"connection_string"`
	MaxConns         int32     `mapstructure:"maxConns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

type ExternalClientConfig struct {
	Gold GoldConfig `mapstructure:"gold"`
}

type GoldConfig struct {
	BaseURL     string        `mapstructure:"baseUrl"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  uint64        `mapstructure:"maxRetries"`
	RetryBase   time.Duration `mapstructure:"retryBase"`
	CacheTTL    time.Duration `mapstructure:"cacheTTL"`
	RefreshCron string        `mapstructure:"refreshCron"`
}

type LedgerConfig struct {
	DefaultFeeRate float64 `mapstructure:"defaultFeeRate"`
}

type NotificationsConfig struct {
	DefaultDuration time.Duration `mapstructure:"defaultDuration"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.json", true)
	v.SetDefault("databases.sql.driver", string(DriverMemory))
	v.SetDefault("databases.sql.maxConns", 5)
	v.SetDefault("databases.sql.connection_string", "")
	v.SetDefault("databases.sql.password", "")
	v.SetDefault("databases.sql.passwordSecretId", "")
	v.SetDefault("databases.redis.enabled", false)
	v.SetDefault("databases.redis.password", "")
	v.SetDefault("externalClients.gold.baseUrl", "https://free.xwteam.cn")
	v.SetDefault("externalClients.gold.timeout", "8s")
	v.SetDefault("externalClients.gold.maxRetries", 2)
	v.SetDefault("externalClients.gold.retryBase", "200ms")
	v.SetDefault("externalClients.gold.cacheTTL", "30s")
	v.SetDefault("externalClients.gold.refreshCron", "@every 30s")
	v.SetDefault("ledger.defaultFeeRate", 0)
	v.SetDefault("notifications.defaultDuration", "1s")
	v.SetDefault("aws.region", "us-east-1")
}

// LoadConfig reads appsettings.yaml from path and, when env is set, merges
// appsettings.<env>.yaml over it. AUGCALC_* environment variables win over both.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("AUGCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at request time.
func (c *Config) Validate() error {
	rate := c.Ledger.DefaultFeeRate
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return fmt.Errorf("ledger.defaultFeeRate must be within [0, 1], got %v", rate)
	}
	return nil
}
