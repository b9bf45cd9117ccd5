package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"` // "debug" 或 "release"
	Address string     `mapstructure:"address"`
	AppURL  string     `mapstructure:"appUrl"` // 前端地址，用于支付完成后的跳转
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"` // "sqlite" 或 "postgres"
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig 定义了PostgreSQL的配置
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig 定义了会话Cookie签名的配置。
// Secret必须与签发会话的身份服务共享；留空时服务器会在启动时生成随机密钥（仅限开发环境）。
type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

// OracleConfig 定义了对战裁决服务（外部生成式AI）的配置
type OracleConfig struct {
	APIKey         string `mapstructure:"apiKey"`
	BaseURL        string `mapstructure:"baseUrl"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

// PaymentConfig 定义了支付提供商的配置
type PaymentConfig struct {
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Paystack PaystackConfig `mapstructure:"paystack"`
}

// StripeConfig 定义了Stripe的密钥配置
type StripeConfig struct {
	SecretKey     string `mapstructure:"secretKey"`
	WebhookSecret string `mapstructure:"webhookSecret"`
}

// Configured 判断Stripe是否可用，不可用时所有用户都会被路由到Paystack
func (s StripeConfig) Configured() bool {
	return s.SecretKey != ""
}

// PaystackConfig 定义了Paystack的密钥配置
type PaystackConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	BaseURL   string `mapstructure:"baseUrl"`
}

// MailConfig 定义了排名变动邮件通知的SMTP配置
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled 判断SMTP是否配置齐全，不齐全时邮件通知会被静默跳过
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != "" && m.Password != "" && m.From != ""
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:9090
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 5. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	// 6. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}

// applyDefaults 为缺省项填充合理的默认值
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.AppURL == "" {
		cfg.Server.AppURL = "http://localhost:3000"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Sqlite.Path == "" {
		cfg.Database.Sqlite.Path = "culling.db"
	}
	if cfg.Oracle.BaseURL == "" {
		cfg.Oracle.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Oracle.Model == "" {
		cfg.Oracle.Model = "google/gemini-2.0-flash-exp:free"
	}
	if cfg.Oracle.TimeoutSeconds <= 0 {
		cfg.Oracle.TimeoutSeconds = 120
	}
	if cfg.Payment.Paystack.BaseURL == "" {
		cfg.Payment.Paystack.BaseURL = "https://api.paystack.co"
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
}
