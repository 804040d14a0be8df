package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cbonilla3189/happyfans/config"
	"github.com/cbonilla3189/happyfans/pkg/logger"
)

// ErrUnavailable 数据库尚未就绪（打开或迁移失败）
var ErrUnavailable = errors.New("database unavailable")

// Dialector 根据连接串选择驱动；URL 为空时回退到本地 SQLite 文件
func Dialector(cfg config.DatabaseConfig) gorm.Dialector {
	dsn := strings.TrimSpace(cfg.URL)
	switch {
	case dsn == "":
		return sqlite.Open(cfg.SQLitePath)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	default:
		return sqlite.Open(dsn)
	}
}

func logLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// InitDB 打开连接并设置连接池
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg.Database), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel(cfg.Database.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}
	return db, nil
}

// Store 延迟初始化的数据库句柄：启动时失败不退出，首次使用时重试打开与迁移
type Store struct {
	open   func() (*gorm.DB, error)
	models []interface{}

	mu       sync.Mutex
	db       *gorm.DB
	migrated bool
}

// NewStore 使用配置构建 Store，models 为需要 AutoMigrate 的表
func NewStore(cfg *config.Config, models ...interface{}) *Store {
	return &Store{open: func() (*gorm.DB, error) { return InitDB(cfg) }, models: models}
}

// FromDB 包装已打开的连接（测试、基准使用）
func FromDB(db *gorm.DB, models ...interface{}) *Store {
	return &Store{open: func() (*gorm.DB, error) { return db, nil }, models: models}
}

// FromDBFunc 自定义打开方式
func FromDBFunc(open func() (*gorm.DB, error), models ...interface{}) *Store {
	return &Store{open: open, models: models}
}

// Init 启动时尝试一次；失败只记录日志
func (s *Store) Init(ctx context.Context) {
	if _, err := s.DB(ctx); err != nil {
		logger.Error("database init failed, will retry on first use", zap.Error(err))
		return
	}
	logger.Info("database ready", zap.Int("tables", len(s.models)))
}

// DB 返回已迁移的连接
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := s.open()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		s.db = db
	}
	if !s.migrated {
		if err := s.db.WithContext(ctx).AutoMigrate(s.models...); err != nil {
			return nil, fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
		}
		s.migrated = true
	}
	return s.db.WithContext(ctx), nil
}

// Close 关闭底层连接
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
