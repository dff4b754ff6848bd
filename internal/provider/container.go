package provider

import (
	"context"
	"time"

	"github.com/volumescan/internal/cache"
	"github.com/volumescan/internal/config"
	"github.com/volumescan/internal/logger"
	"github.com/volumescan/internal/queue"
	"github.com/volumescan/internal/repository"
	"github.com/volumescan/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Cache
	QueueClient *queue.Client

	// Repositories
	VolumeRepo      repository.VolumeRepository
	BranchTotalRepo repository.BranchTotalRepository

	// Services
	VolumeService      *service.VolumeService
	BranchTotalService *service.BranchTotalService
	ExportService      *service.ExportService
}

// NewContainer 初始化容器，数据库由调用方打开并负责关闭
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	if cfg == nil {
		cfg = &config.Config{}
	}

	// 初始化缓存
	redisCache := cache.NewRedis(&cfg.Redis)
	if redisCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warnw("provider_init_redis_failed", "error", err)
		}
		cancel()
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       redisCache,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.VolumeRepo = repository.NewVolumeRepository(c.DB)
	c.BranchTotalRepo = repository.NewBranchTotalRepository(c.DB)
}

func (c *Container) initServices() {
	c.VolumeService = service.NewVolumeService(c.VolumeRepo, c.BranchTotalRepo, c.QueueClient)
	c.BranchTotalService = service.NewBranchTotalService(c.BranchTotalRepo, c.VolumeRepo)
	c.ExportService = service.NewExportService(c.VolumeRepo)
}

// Close 释放缓存与队列连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := c.Cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
