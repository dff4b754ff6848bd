package models

import "time"

// Volume 单次扫码记录，创建后不再修改
type Volume struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Barcode   string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"barcode"`
	BranchID  string    `gorm:"type:varchar(10);not null;index" json:"branchId"`
	OrderID   string    `gorm:"type:varchar(10);not null" json:"orderId"`
	VolumeID  string    `gorm:"type:varchar(10);not null" json:"volumeId"`
	ScannedAt time.Time `gorm:"not null" json:"scannedAt"`
}

// TableName 指定表名
func (Volume) TableName() string {
	return "volumes"
}
