package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/undangan-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	UserJWT  JWTConfig      `mapstructure:"user_jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Midtrans MidtransConfig `mapstructure:"midtrans"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
}

// AppConfig 应用级配置
type AppConfig struct {
	Name string `mapstructure:"name"`
	// PublicBaseURL 前台请柬访问地址，例如 https://undangan.example.com
	PublicBaseURL string `mapstructure:"public_base_url"`
	// PublicCacheSeconds 公开请柬详情缓存时间
	PublicCacheSeconds int `mapstructure:"public_cache_seconds"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Console:    c.Console,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// StorageConfig 文件存储配置
type StorageConfig struct {
	Driver string             `mapstructure:"driver"` // local / s3
	Local  LocalStorageConfig `mapstructure:"local"`
	S3     S3StorageConfig    `mapstructure:"s3"`
}

// LocalStorageConfig 本地磁盘存储
type LocalStorageConfig struct {
	Root      string `mapstructure:"root"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// S3StorageConfig S3 兼容对象存储
type S3StorageConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string `mapstructure:"endpoint"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

// UploadRule 单类文件上传限制
type UploadRule struct {
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// UploadConfig 文件上传配置
type UploadConfig struct {
	Image UploadRule `mapstructure:"image"`
	Video UploadRule `mapstructure:"video"`
	Audio UploadRule `mapstructure:"audio"`
}

// MidtransConfig Midtrans Snap 配置
type MidtransConfig struct {
	ServerKey      string `mapstructure:"server_key"`
	ClientKey      string `mapstructure:"client_key"`
	IsProduction   bool   `mapstructure:"is_production"`
	SandboxURL     string `mapstructure:"sandbox_url"`
	ProductionURL  string `mapstructure:"production_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SnapURL 根据环境选择 Snap 接口地址
func (c MidtransConfig) SnapURL() string {
	if c.IsProduction {
		return strings.TrimSpace(c.ProductionURL)
	}
	return strings.TrimSpace(c.SandboxURL)
}

// Timeout 请求超时
func (c MidtransConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit   RateLimitConfig `mapstructure:"login_rate_limit"`
	WebhookRateLimit RateLimitConfig `mapstructure:"webhook_rate_limit"`
	CommentRateLimit RateLimitConfig `mapstructure:"comment_rate_limit"`
	PasswordMinLen   int             `mapstructure:"password_min_length"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// CaptchaConfig 图片验证码配置
type CaptchaConfig struct {
	CommentEnabled bool `mapstructure:"comment_enabled"`
	Length         int  `mapstructure:"length"`
	Width          int  `mapstructure:"width"`
	Height         int  `mapstructure:"height"`
	NoiseCount     int  `mapstructure:"noise_count"`
	ShowLine       int  `mapstructure:"show_line"`
	ExpireSeconds  int  `mapstructure:"expire_seconds"`
	MaxStore       int  `mapstructure:"max_store"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "undangan-next")
	v.SetDefault("app.public_base_url", "http://localhost:3000")
	v.SetDefault("app.public_cache_seconds", 300)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "undangan.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.console", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/undangan.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("user_jwt.expire_hours", 72)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "undangan")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  5,
		"critical": 10,
	})
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.root", "./storage")
	v.SetDefault("storage.local.url_prefix", "/storage")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "ap-southeast-1")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.use_path_style", false)
	v.SetDefault("storage.s3.public_base_url", "")
	v.SetDefault("upload.image.max_size", 2*1024*1024)
	v.SetDefault("upload.image.allowed_extensions", []string{".jpg", ".jpeg", ".png", ".webp"})
	v.SetDefault("upload.video.max_size", 100*1024*1024)
	v.SetDefault("upload.video.allowed_extensions", []string{".mp4", ".webm", ".mov", ".avi", ".wmv"})
	v.SetDefault("upload.audio.max_size", 20*1024*1024)
	v.SetDefault("upload.audio.allowed_extensions", []string{".mp3", ".wav", ".ogg"})
	v.SetDefault("midtrans.server_key", "")
	v.SetDefault("midtrans.client_key", "")
	v.SetDefault("midtrans.is_production", false)
	v.SetDefault("midtrans.sandbox_url", "https://app.sandbox.midtrans.com/snap/v1/transactions")
	v.SetDefault("midtrans.production_url", "https://app.midtrans.com/snap/v1/transactions")
	v.SetDefault("midtrans.timeout_seconds", 15)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Origin",
		"Content-Type",
		"Content-Length",
		"Accept",
		"Authorization",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_requests", 10)
	v.SetDefault("security.webhook_rate_limit.window_seconds", 60)
	v.SetDefault("security.webhook_rate_limit.max_requests", 120)
	v.SetDefault("security.comment_rate_limit.window_seconds", 60)
	v.SetDefault("security.comment_rate_limit.max_requests", 5)
	v.SetDefault("security.password_min_length", 8)
	v.SetDefault("captcha.comment_enabled", false)
	v.SetDefault("captcha.length", 5)
	v.SetDefault("captcha.width", 240)
	v.SetDefault("captcha.height", 80)
	v.SetDefault("captcha.noise_count", 2)
	v.SetDefault("captcha.show_line", 2)
	v.SetDefault("captcha.expire_seconds", 300)
	v.SetDefault("captcha.max_store", 10240)
}

// Load 从 config.yml 与环境变量加载配置
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("./etc")

	setDefaults(v)

	// server.port -> SERVER_PORT, midtrans.server_key -> MIDTRANS_SERVER_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return &cfg
}
