package container

import (
	"fmt"
	"time"

	"github.com/mautops/registration-gin/internal/api"
	"github.com/mautops/registration-gin/internal/config"
	"github.com/mautops/registration-gin/internal/database"
	"github.com/mautops/registration-gin/internal/repository"
	"github.com/mautops/registration-gin/internal/service"
	"github.com/mautops/registration-gin/internal/validation"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 显式构造并持有全部应用依赖,没有包级单例
// 存储接口在启动时装配进服务,测试可以用内存数据库替换
type Container struct {
	cfg               *config.Config
	db                *gorm.DB
	logger            *logrus.Logger
	aggregator        *validation.Aggregator
	submissionService service.SubmissionService
	validationService service.ValidationService
	watcher           *config.ConfigWatcher
}

// NewContainer 创建依赖注入容器
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化日志
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 2. 初始化数据库(带重试机制,指数退避)
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return newContainerWithDB(cfg, db, logger), nil
}

// NewContainerWithDB 用现有数据库连接创建容器(用于测试)
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *Container {
	return newContainerWithDB(cfg, db, logger)
}

func newContainerWithDB(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *Container {
	// 校验参考数据来自配置,作为数据注入校验器
	aggregator := validation.NewAggregator(validation.Rules{
		DisposableDomains: cfg.Validation.DisposableDomains,
		BusinessTypes:     cfg.Validation.BusinessTypes,
		States:            cfg.Validation.States,
	})

	logRepo := repository.NewValidationLogRepository(db)

	return &Container{
		cfg:               cfg,
		db:                db,
		logger:            logger,
		aggregator:        aggregator,
		submissionService: service.NewSubmissionService(db, aggregator, logger),
		validationService: service.NewValidationService(aggregator, logRepo, logger),
	}
}

// StartConfigWatcher 启动配置监听,热更新校验参考数据
func (c *Container) StartConfigWatcher(configPath string) error {
	if configPath == "" {
		return nil
	}

	c.watcher = config.NewConfigWatcher(c.cfg, configPath)
	c.watcher.OnConfigChange(func(newCfg *config.Config) {
		c.aggregator.Reload(validation.Rules{
			DisposableDomains: newCfg.Validation.DisposableDomains,
			BusinessTypes:     newCfg.Validation.BusinessTypes,
			States:            newCfg.Validation.States,
		})
		c.logger.Info("validation reference data reloaded")
	})
	return c.watcher.Start()
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// Aggregator 获取校验聚合器
func (c *Container) Aggregator() *validation.Aggregator {
	return c.aggregator
}

// SubmissionService 获取注册提交服务
func (c *Container) SubmissionService() service.SubmissionService {
	return c.submissionService
}

// ValidationService 获取字段校验服务
func (c *Container) ValidationService() service.ValidationService {
	return c.validationService
}

// Close 释放容器持有的资源
func (c *Container) Close() {
	if c.watcher != nil {
		c.watcher.Stop()
	}
	if c.db != nil {
		_ = database.Close(c.db)
	}
}
