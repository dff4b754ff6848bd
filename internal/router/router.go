package router

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/volumescan/internal/config"
	apihandlers "github.com/volumescan/internal/http/handlers/api"
	"github.com/volumescan/internal/logger"
	"github.com/volumescan/internal/metrics"
	"github.com/volumescan/internal/provider"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	apiHandler := apihandlers.New(c)
	scanHandlers := []gin.HandlerFunc{apiHandler.AddVolume}
	// 扫码限流默认关闭，需同时启用 Redis 并配置 max_requests
	if scanRule, ok := scanRateLimitRule(cfg, c); ok {
		scanHandlers = append([]gin.HandlerFunc{
			RateLimitMiddleware(c.Cache.Client(), scanRule, KeyByIPAndJSONField("branchId")),
		}, scanHandlers...)
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}

	// 前端入口页面
	r.GET("/", indexHandler(cfg.Server.IndexFile))
	r.GET("/health", healthHandler(c))
	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler()))
	}

	api := r.Group("/api")
	{
		volumes := api.Group("/volumes")
		{
			volumes.GET("", apiHandler.ListVolumes)
			volumes.POST("", scanHandlers...)
			volumes.GET("/export", apiHandler.ExportVolumes)
			// 静态段优先于 :barcode 参数匹配
			volumes.DELETE("/clear", apiHandler.ClearVolumes)
			volumes.DELETE("/:barcode", apiHandler.DeleteVolume)
		}

		branches := api.Group("/branches")
		{
			branches.POST("/total", apiHandler.SetBranchTotal)
			branches.GET("/total/:branchId", apiHandler.GetBranchTotal)
			branches.GET("/summary/:branchId", apiHandler.GetBranchSummary)
		}
	}

	return r
}

func scanRateLimitRule(cfg *config.Config, c *provider.Container) (RateLimitRule, bool) {
	rule := RateLimitRule{
		Prefix:        c.Cache.Key("rate:scan"),
		WindowSeconds: cfg.Security.ScanRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ScanRateLimit.MaxRequests,
	}
	if !c.Cache.Enabled() || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return rule, false
	}
	return rule, true
}

func indexHandler(indexFile string) gin.HandlerFunc {
	indexFile = strings.TrimSpace(indexFile)
	return func(c *gin.Context) {
		if indexFile == "" {
			c.Status(http.StatusNotFound)
			return
		}
		info, err := os.Stat(indexFile)
		if err != nil || info.IsDir() {
			logger.Debugw("index_file_unavailable", "path", indexFile, "error", err)
			c.Status(http.StatusNotFound)
			return
		}
		c.File(indexFile)
	}
}

func healthHandler(c *provider.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil || c.DB == nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		sqlDB, err := c.DB.DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
			err = sqlDB.PingContext(pingCtx)
			cancel()
		}
		if err != nil {
			logger.Warnw("health_check_db_failed", "error", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
