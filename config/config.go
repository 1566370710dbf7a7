package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置，启动时加载一次并显式传递
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Trace    TraceConfig    `mapstructure:"trace"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, mysql, postgres
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"` // 留空则不启用缓存
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // json, console
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"` // 留空则不上报
}

type TraceConfig struct {
	Endpoint string `mapstructure:"endpoint"` // OTLP/HTTP，留空则不启用
}

// Load 读取 config.yaml（CONFIG_PATH 可覆盖），环境变量前缀 MINITHREADS_
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "db.sqlite")
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("jwt.secret", "CHANGE_THIS_SECRET_KEY")
	v.SetDefault("jwt.ttl", 7*24*time.Hour)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	v.SetEnvPrefix("MINITHREADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值 + 环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
