package models

import (
	"fmt"
	"time"

	"github.com/volumescan/internal/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoBranch 演示会话中的分支配置
type DemoBranch struct {
	BranchID     string
	TotalVolumes int
	Scanned      int
}

// DefaultDemoBranches 默认演示数据
var DefaultDemoBranches = []DemoBranch{
	{BranchID: "BR01", TotalVolumes: 20, Scanned: 12},
	{BranchID: "BR02", TotalVolumes: 5, Scanned: 5},
	{BranchID: "BR03", TotalVolumes: 8, Scanned: 0},
}

// SeedDemoSession 写入一组演示扫码数据，已存在的条码与分支申报会被跳过或覆盖
func SeedDemoSession(db *gorm.DB, branches []DemoBranch) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, branch := range branches {
			total := BranchTotal{
				BranchID:     branch.BranchID,
				TotalVolumes: branch.TotalVolumes,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "branch_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"total_volumes", "updated_at"}),
			}).Create(&total).Error; err != nil {
				return err
			}

			for i := 1; i <= branch.Scanned; i++ {
				volume := Volume{
					Barcode:   fmt.Sprintf("DEMO-%s-%04d", branch.BranchID, i),
					BranchID:  branch.BranchID,
					OrderID:   fmt.Sprintf("P%03d", (i-1)/4+1),
					VolumeID:  fmt.Sprintf("%d/%d", i, branch.TotalVolumes),
					ScannedAt: now.Add(time.Duration(i) * time.Second),
				}
				result := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "barcode"}},
					DoNothing: true,
				}).Create(&volume)
				if result.Error != nil {
					return result.Error
				}
				created += int(result.RowsAffected)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Infow("demo_session_seeded", "branches", len(branches), "volumes_created", created)
	return created, nil
}

// ResetSession 清空扫码记录与分支申报
func ResetSession(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Volume{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&BranchTotal{}).Error
	})
}
