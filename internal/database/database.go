package database

import (
	"context"
	"fmt"
	"time"

	"github.com/mautops/registration-gin/internal/config"
	"github.com/mautops/registration-gin/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// GetPoolConfig 获取连接池默认配置
func GetPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: 3600, // 1 小时
		ConnMaxIdleTime: 600,  // 10 分钟
	}
}

// Connect 连接数据库并配置连接池
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 从配置中读取连接池参数,未设置的项使用默认值
	poolConfig := GetPoolConfig()
	if cfg.MaxIdleConns > 0 {
		poolConfig.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolConfig.ConnMaxIdleTime = cfg.ConnMaxIdleTime
	}

	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(poolConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(poolConfig.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// ConnectWithRetry 带重试的数据库连接,指数退避
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.SubmissionModel{},
		&model.ValidationLogModel{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// CreateIndexes 创建数据库索引
// national_id / tax_id 的部分唯一索引是重复检测的权威兜底:
// 重复守卫的先查后写对并发提交不具原子性,最终由这里的唯一约束保证不变量
// REJECTED(软删除)记录不再占用其标识符
func CreateIndexes(db *gorm.DB) error {
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_national_id_active " +
			"ON submissions(national_id) WHERE status <> 'REJECTED'",
	).Error; err != nil {
		return fmt.Errorf("failed to create idx_submissions_national_id_active: %w", err)
	}
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_tax_id_active " +
			"ON submissions(tax_id) WHERE status <> 'REJECTED'",
	).Error; err != nil {
		return fmt.Errorf("failed to create idx_submissions_tax_id_active: %w", err)
	}

	// submissions 表查询索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_submissions_status_created ON submissions(status, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_submissions_status_created: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_submissions_business_name ON submissions(business_name)").Error; err != nil {
		return fmt.Errorf("failed to create idx_submissions_business_name: %w", err)
	}

	// field_validation_logs 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_validation_logs_submission ON field_validation_logs(submission_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_validation_logs_submission: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_validation_logs_type_created ON field_validation_logs(validation_type, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_validation_logs_type_created: %w", err)
	}

	return nil
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx) == nil
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
