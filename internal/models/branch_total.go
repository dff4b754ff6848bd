package models

import "time"

// BranchTotal 分支申报的应扫件数
type BranchTotal struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	BranchID     string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"branchId"`
	TotalVolumes int       `gorm:"not null" json:"totalVolumes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (BranchTotal) TableName() string {
	return "branch_totals"
}
