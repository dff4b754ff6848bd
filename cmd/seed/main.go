package main

import (
	"flag"

	"github.com/volumescan/internal/config"
	"github.com/volumescan/internal/logger"
	"github.com/volumescan/internal/models"

	gormlogger "gorm.io/gorm/logger"
)

func main() {
	reset := flag.Bool("reset", false, "清空现有扫码记录后再写入演示数据")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	db, err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, gormlogger.Warn)
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	defer func() { _ = models.Close(db) }()

	// 自动迁移
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if *reset {
		if err := models.ResetSession(db); err != nil {
			stdLog.Fatalf("Failed to reset session: %v", err)
		}
		stdLog.Printf("Existing session cleared")
	}

	created, err := models.SeedDemoSession(db, models.DefaultDemoBranches)
	if err != nil {
		stdLog.Fatalf("Failed to seed demo session: %v", err)
	}
	for _, branch := range models.DefaultDemoBranches {
		stdLog.Printf("Branch %s: %d/%d volumes", branch.BranchID, branch.Scanned, branch.TotalVolumes)
	}
	stdLog.Printf("Seed completed, %d volumes created", created)
}
