package service

import "errors"

var (
	// ErrVolumeDuplicate 条码已登记
	ErrVolumeDuplicate = errors.New("volume already exists")
	// ErrVolumeNotFound 条码不存在
	ErrVolumeNotFound = errors.New("volume not found")
	// ErrInvalidVolume 扫码参数不合法
	ErrInvalidVolume = errors.New("invalid volume")
	// ErrBranchTotalNotFound 分支尚未申报应扫件数
	ErrBranchTotalNotFound = errors.New("branch total not found")
	// ErrInvalidBranchTotal 应扫件数参数不合法
	ErrInvalidBranchTotal = errors.New("invalid branch total")
	// ErrExportFailed 导出文件生成失败
	ErrExportFailed = errors.New("export failed")
)
