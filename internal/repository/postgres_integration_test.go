//go:build integration
// +build integration

package repository

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/volumescan/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.Volume{},
		&models.BranchTotal{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresVolumeDuplicateAndUpsert(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	volumeRepo := NewVolumeRepository(db)
	totalRepo := NewBranchTotalRepository(db)

	volume := &models.Volume{Barcode: "PG-1", BranchID: "BR1", OrderID: "O1", VolumeID: "V1", ScannedAt: time.Now().UTC()}
	if err := volumeRepo.Create(volume); err != nil {
		t.Fatalf("create volume failed: %v", err)
	}
	dup := &models.Volume{Barcode: "PG-1", BranchID: "BR2", OrderID: "O2", VolumeID: "V2", ScannedAt: time.Now().UTC()}
	if err := volumeRepo.Create(dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("duplicate create want ErrDuplicateKey got %v", err)
	}

	if err := totalRepo.Upsert("BR1", 20); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := totalRepo.Upsert("BR1", 25); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	got, err := totalRepo.GetByBranchID("BR1")
	if err != nil || got == nil {
		t.Fatalf("get branch total failed: %+v err=%v", got, err)
	}
	if got.TotalVolumes != 25 {
		t.Fatalf("total want 25 got %d", got.TotalVolumes)
	}

	grouped, err := volumeRepo.CountGroupedByBranch()
	if err != nil {
		t.Fatalf("count grouped failed: %v", err)
	}
	if len(grouped) != 1 || grouped[0].Count != 1 {
		t.Fatalf("unexpected grouped counts: %+v", grouped)
	}
}
