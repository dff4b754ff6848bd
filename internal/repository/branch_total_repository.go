package repository

import (
	"errors"
	"time"

	"github.com/volumescan/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BranchTotalRepository 分支应扫件数数据访问接口
type BranchTotalRepository interface {
	WithTx(tx *gorm.DB) BranchTotalRepository
	GetByBranchID(branchID string) (*models.BranchTotal, error)
	Upsert(branchID string, totalVolumes int) error
	List() ([]models.BranchTotal, error)
	DeleteAll() error
}

// GormBranchTotalRepository GORM 实现
type GormBranchTotalRepository struct {
	db *gorm.DB
}

// NewBranchTotalRepository 创建分支应扫件数仓库
func NewBranchTotalRepository(db *gorm.DB) *GormBranchTotalRepository {
	return &GormBranchTotalRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBranchTotalRepository) WithTx(tx *gorm.DB) BranchTotalRepository {
	if tx == nil {
		return r
	}
	return &GormBranchTotalRepository{db: tx}
}

// GetByBranchID 根据分支编码获取，不存在时返回 nil
func (r *GormBranchTotalRepository) GetByBranchID(branchID string) (*models.BranchTotal, error) {
	var total models.BranchTotal
	if err := r.db.Where("branch_id = ?", branchID).First(&total).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &total, nil
}

// Upsert 按 branch_id 插入或覆盖应扫件数
func (r *GormBranchTotalRepository) Upsert(branchID string, totalVolumes int) error {
	now := time.Now()
	row := models.BranchTotal{
		BranchID:     branchID,
		TotalVolumes: totalVolumes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_volumes", "updated_at"}),
	}).Create(&row).Error
}

// List 获取全部分支应扫件数
func (r *GormBranchTotalRepository) List() ([]models.BranchTotal, error) {
	totals := make([]models.BranchTotal, 0)
	if err := r.db.Order("branch_id ASC").Find(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// DeleteAll 清空分支应扫件数
func (r *GormBranchTotalRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.BranchTotal{}).Error
}
