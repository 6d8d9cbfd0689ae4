package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App    AppConfig      `mapstructure:"app"`
	MySQL  DatabaseConfig `mapstructure:"mysql"`
	Redis  RedisConfig    `mapstructure:"redis"`
	Log    LogConfig      `mapstructure:"log"`
	JWT    JWTConfig      `mapstructure:"jwt"`
	Upload UploadConfig   `mapstructure:"upload"`
	Mail   MailConfig     `mapstructure:"mail"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Mode        string `mapstructure:"mode"`
	Port        int    `mapstructure:"port"`
	MaxBodySize int64  `mapstructure:"max_body_size"` // 请求体大小上限（字节）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	Enabled  bool   `mapstructure:"enabled"`
}

// Addr 获取Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey            string `mapstructure:"secret_key"`
	AccessExpireSeconds  int    `mapstructure:"access_expire_seconds"`
	RefreshExpireSeconds int    `mapstructure:"refresh_expire_seconds"`
	ResetExpireSeconds   int    `mapstructure:"reset_expire_seconds"` // 密码重置令牌有效期
	Issuer               string `mapstructure:"issuer"`
}

// UploadConfig 上传配置
type UploadConfig struct {
	Root               string `mapstructure:"root"`                  // 上传根目录
	URLPrefix          string `mapstructure:"url_prefix"`            // 静态访问前缀
	ProfileMaxBytes    int64  `mapstructure:"profile_max_bytes"`     // 头像大小上限，默认2MiB
	GalleryMaxBytes    int64  `mapstructure:"gallery_max_bytes"`     // 相册图片大小上限
	SweepIntervalHours int    `mapstructure:"sweep_interval_hours"`  // 孤儿文件清扫周期
}

// MailConfig 邮件配置
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Suppress bool   `mapstructure:"suppress"` // 测试环境禁止真实发信
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
	configMu     sync.RWMutex
	viperInstance *viper.Viper
)

// Init 初始化配置并监听文件变更
func Init(configPath string) error {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件失败: %v", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %v", err)
	}

	configMu.Lock()
	GlobalConfig = &cfg
	viperInstance = v
	configMu.Unlock()

	// 配置热加载，失败时保留旧配置
	v.OnConfigChange(func(e fsnotify.Event) {
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			return
		}
		configMu.Lock()
		GlobalConfig = &next
		configMu.Unlock()
	})
	v.WatchConfig()

	return nil
}

// Set 直接设置全局配置（测试用）
func Set(cfg *Config) {
	configMu.Lock()
	GlobalConfig = cfg
	configMu.Unlock()
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return GlobalConfig
}
