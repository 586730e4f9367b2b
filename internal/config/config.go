package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Gateway  GatewayConfig  `json:"gateway"`
	Checkout CheckoutConfig `json:"checkout"`
}

type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	MetricsPort int    `json:"metrics_port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// GatewayConfig points at the backend REST APIs the orchestrator
// consumes. TimeoutSeconds bounds every outbound call so a hung
// gateway can never leave a session processing forever.
type GatewayConfig struct {
	OrderBaseURL   string `json:"order_base_url"`
	PaymentBaseURL string `json:"payment_base_url"`
	CartBaseURL    string `json:"cart_base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type CheckoutConfig struct {
	SessionTTLMinutes      int `json:"session_ttl_minutes"`
	MarkerTTLMinutes       int `json:"marker_ttl_minutes"`
	JanitorIntervalSeconds int `json:"janitor_interval_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Gateway.TimeoutSeconds <= 0 {
		c.Gateway.TimeoutSeconds = 15
	}
	if c.Checkout.SessionTTLMinutes <= 0 {
		c.Checkout.SessionTTLMinutes = 60
	}
	if c.Checkout.MarkerTTLMinutes <= 0 {
		c.Checkout.MarkerTTLMinutes = 60
	}
	if c.Checkout.JanitorIntervalSeconds <= 0 {
		c.Checkout.JanitorIntervalSeconds = 60
	}
}

func (c *GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *CheckoutConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *CheckoutConfig) MarkerTTL() time.Duration {
	return time.Duration(c.MarkerTTLMinutes) * time.Minute
}

func (c *CheckoutConfig) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorIntervalSeconds) * time.Second
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
