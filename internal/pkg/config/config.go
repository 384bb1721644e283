package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	App       AppConfig       `mapstructure:"app"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Recording RecordingConfig `mapstructure:"recording"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	OSS       OSSConfig       `mapstructure:"oss"`
	Push      PushConfig      `mapstructure:"push"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StoreConfig 记录存储后端: memory | postgres | redis
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Prefix string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

// DSN 拼接 gorm 使用的连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode, d.TimeZone)
}

// URL 拼接 golang-migrate 使用的连接串
func (d DatabaseConfig) URL() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

// AuthConfig 密码存储方式: bcrypt | plain (plain 仅用于演示)
type AuthConfig struct {
	PasswordHashing string `mapstructure:"password_hashing"`
}

type GeminiConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	ImageModel string        `mapstructure:"image_model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RecordingConfig struct {
	MinDuration    time.Duration `mapstructure:"min_duration"`
	MaxDuration    time.Duration `mapstructure:"max_duration"`
	Tick           time.Duration `mapstructure:"tick"`
	NoticeDuration time.Duration `mapstructure:"notice_duration"`
	Tolerance      time.Duration `mapstructure:"tolerance"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// CaptureConfig CLI 录音命令，命令需把编码后的音频写到 stdout
type CaptureConfig struct {
	Command  string   `mapstructure:"command"`
	Args     []string `mapstructure:"args"`
	MIMEType string   `mapstructure:"mime_type"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

// Enabled OSS 是否配置完整
func (o OSSConfig) Enabled() bool {
	return o.Endpoint != "" && o.AccessKeyID != "" && o.BucketName != ""
}

type PushConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	AppKey          int64  `mapstructure:"app_key"`
	RegionID        string `mapstructure:"region_id"` // e.g., "cn-hangzhou"
}

type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
}

type RateLimitConfig struct {
	RequestsPerSecond  float64 `mapstructure:"requests_per_second"`
	Burst              int     `mapstructure:"burst"`
	TranslatePerMinute int     `mapstructure:"translate_per_minute"`
}

type WorkerConfig struct {
	Workers    int `mapstructure:"workers"`
	BufferSize int `mapstructure:"buffer_size"`
	MaxRetry   int `mapstructure:"max_retry"`
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return errors.New("database configuration is incomplete")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis address is required")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Auth.PasswordHashing {
	case "bcrypt", "plain":
	default:
		return fmt.Errorf("unknown password hashing %q", c.Auth.PasswordHashing)
	}
	if c.Auth.PasswordHashing == "plain" && c.App.Env == "prod" {
		return errors.New("plain password storage is a demo mode and is refused in prod")
	}

	if c.Recording.MinDuration <= 0 || c.Recording.MaxDuration <= c.Recording.MinDuration {
		return errors.New("recording window must satisfy 0 < min < max")
	}

	return nil
}

// SetDefaults 注册默认值，CLI 与服务端共用
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.prefix", "pawsay:")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("jwt.expire", 24*30)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("auth.password_hashing", "bcrypt")
	v.SetDefault("gemini.model", "gemini-3-flash-preview")
	v.SetDefault("gemini.image_model", "gemini-2.5-flash-image")
	v.SetDefault("gemini.timeout", 30*time.Second)
	v.SetDefault("recording.min_duration", 2*time.Second)
	v.SetDefault("recording.max_duration", 8*time.Second)
	v.SetDefault("recording.tick", 50*time.Millisecond)
	v.SetDefault("recording.notice_duration", 2*time.Second)
	v.SetDefault("recording.tolerance", 250*time.Millisecond)
	v.SetDefault("recording.max_upload_bytes", 5<<20)
	v.SetDefault("capture.command", "ffmpeg")
	v.SetDefault("capture.args", []string{"-loglevel", "quiet", "-f", "pulse", "-i", "default", "-f", "webm", "-"})
	v.SetDefault("capture.mime_type", "audio/webm")
	v.SetDefault("ratelimit.requests_per_second", 20)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("ratelimit.translate_per_minute", 10)
	v.SetDefault("worker.workers", 2)
	v.SetDefault("worker.buffer_size", 100)
	v.SetDefault("worker.max_retry", 3)
}

// Load 读取配置文件与环境变量
func Load() (Config, error) {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量, server.port -> SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 手动覆盖，以防 viper 无法正确解析复杂结构或环境变量
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}
	if cfg.App.Env == "" {
		cfg.App.Env = env
	}

	return cfg, nil
}

// LoadConfig 加载并验证配置，失败时直接退出
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	GlobalConfig = cfg
	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
