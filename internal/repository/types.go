package repository

import "errors"

// ErrDuplicateKey 存储层唯一约束冲突
var ErrDuplicateKey = errors.New("duplicate key")

// VolumeListFilter 查询扫码记录的过滤条件
type VolumeListFilter struct {
	BranchID string
}

// BranchVolumeCount 按分支统计的扫码件数
type BranchVolumeCount struct {
	BranchID string
	Count    int64
}
