package database

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/mini-threads/config"
	"github.com/d60-Lab/mini-threads/internal/model"
)

// InitDB 按配置打开数据库并迁移表结构。
// TranslateError 让唯一键冲突以 gorm.ErrDuplicatedKey 暴露，
// 重名注册 / 重复关注的竞态由数据库唯一索引兜底。
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Follow{}, &model.Post{}, &model.Comment{}); err != nil {
		return nil, err
	}
	return db, nil
}

// InitRedis 构建 redis 客户端；addr 为空表示未启用缓存，返回 nil
func InitRedis(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
