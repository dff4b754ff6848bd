package repository

import (
	"errors"
	"strings"

	"github.com/volumescan/internal/models"

	"gorm.io/gorm"
)

// VolumeRepository 扫码记录数据访问接口
type VolumeRepository interface {
	WithTx(tx *gorm.DB) VolumeRepository
	Transaction(fn func(tx *gorm.DB) error) error
	List(filter VolumeListFilter) ([]models.Volume, error)
	GetByBarcode(barcode string) (*models.Volume, error)
	Create(volume *models.Volume) error
	DeleteByBarcode(barcode string) (int64, error)
	DeleteAll() error
	CountByBranch(branchID string) (int64, error)
	CountGroupedByBranch() ([]BranchVolumeCount, error)
}

// GormVolumeRepository GORM 实现
type GormVolumeRepository struct {
	db *gorm.DB
}

// NewVolumeRepository 创建扫码记录仓库
func NewVolumeRepository(db *gorm.DB) *GormVolumeRepository {
	return &GormVolumeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVolumeRepository) WithTx(tx *gorm.DB) VolumeRepository {
	if tx == nil {
		return r
	}
	return &GormVolumeRepository{db: tx}
}

// Transaction 执行事务
func (r *GormVolumeRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 按扫码顺序返回记录
func (r *GormVolumeRepository) List(filter VolumeListFilter) ([]models.Volume, error) {
	volumes := make([]models.Volume, 0)
	query := r.db.Model(&models.Volume{})
	if branchID := strings.TrimSpace(filter.BranchID); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if err := query.Order("id ASC").Find(&volumes).Error; err != nil {
		return nil, err
	}
	return volumes, nil
}

// GetByBarcode 根据条码获取记录，不存在时返回 nil
func (r *GormVolumeRepository) GetByBarcode(barcode string) (*models.Volume, error) {
	var volume models.Volume
	if err := r.db.Where("barcode = ?", barcode).First(&volume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &volume, nil
}

// Create 写入扫码记录
func (r *GormVolumeRepository) Create(volume *models.Volume) error {
	if err := r.db.Create(volume).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

// DeleteByBarcode 删除指定条码，返回受影响行数
func (r *GormVolumeRepository) DeleteByBarcode(barcode string) (int64, error) {
	result := r.db.Where("barcode = ?", barcode).Delete(&models.Volume{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteAll 清空扫码记录
func (r *GormVolumeRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Volume{}).Error
}

// CountByBranch 统计分支已扫件数
func (r *GormVolumeRepository) CountByBranch(branchID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Volume{}).Where("branch_id = ?", branchID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountGroupedByBranch 按分支分组统计已扫件数
func (r *GormVolumeRepository) CountGroupedByBranch() ([]BranchVolumeCount, error) {
	var rows []struct {
		BranchID string
		Count    int64
	}
	if err := r.db.Model(&models.Volume{}).
		Select("branch_id, COUNT(*) AS count").
		Group("branch_id").
		Order("branch_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make([]BranchVolumeCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, BranchVolumeCount{BranchID: row.BranchID, Count: row.Count})
	}
	return counts, nil
}

// isUniqueViolation 兼容 TranslateError 与未翻译的驱动原始错误
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "sqlstate 23505")
}
