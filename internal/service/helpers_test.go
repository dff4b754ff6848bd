package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/volumescan/internal/models"
	"github.com/volumescan/internal/queue"
	"github.com/volumescan/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var serviceTestSeq int64

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&serviceTestSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

type sessionNotifierStub struct {
	payloads []queue.SessionClosedPayload
	err      error
}

func (s *sessionNotifierStub) EnqueueSessionClosed(payload queue.SessionClosedPayload, _ ...asynq.Option) error {
	s.payloads = append(s.payloads, payload)
	return s.err
}

type serviceFixture struct {
	db        *gorm.DB
	volumes   *VolumeService
	totals    *BranchTotalService
	export    *ExportService
	notifier  *sessionNotifierStub
	volumeRep *repository.GormVolumeRepository
	totalRep  *repository.GormBranchTotalRepository
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	volumeRepo := repository.NewVolumeRepository(db)
	totalRepo := repository.NewBranchTotalRepository(db)
	notifier := &sessionNotifierStub{}
	return &serviceFixture{
		db:        db,
		volumes:   NewVolumeService(volumeRepo, totalRepo, notifier),
		totals:    NewBranchTotalService(totalRepo, volumeRepo),
		export:    NewExportService(volumeRepo),
		notifier:  notifier,
		volumeRep: volumeRepo,
		totalRep:  totalRepo,
	}
}

func mustAddVolume(t *testing.T, svc *VolumeService, barcode, branchID string) *models.Volume {
	t.Helper()
	volume, err := svc.Add(AddVolumeInput{Barcode: barcode, BranchID: branchID, OrderID: "O1", VolumeID: "V1"})
	if err != nil {
		t.Fatalf("add volume %s failed: %v", barcode, err)
	}
	return volume
}
