package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/volumescan/internal/constants"
	"github.com/volumescan/internal/logger"
	"github.com/volumescan/internal/metrics"
	"github.com/volumescan/internal/repository"
)

// BranchTotalService 分支应扫件数业务服务
type BranchTotalService struct {
	repo       repository.BranchTotalRepository
	volumeRepo repository.VolumeRepository
}

// NewBranchTotalService 创建分支应扫件数服务
func NewBranchTotalService(repo repository.BranchTotalRepository, volumeRepo repository.VolumeRepository) *BranchTotalService {
	return &BranchTotalService{
		repo:       repo,
		volumeRepo: volumeRepo,
	}
}

// BranchSummary 分支对账结果
type BranchSummary struct {
	BranchID         string
	ScannedVolumes   int64
	TotalVolumes     *int
	RemainingVolumes *int64
	Complete         bool
}

// SetTotal 申报分支应扫件数，已存在时覆盖
func (s *BranchTotalService) SetTotal(branchID string, totalVolumes int) error {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" || utf8.RuneCountInString(branchID) > constants.ShortCodeMaxLength || totalVolumes < 0 {
		return ErrInvalidBranchTotal
	}
	if err := s.repo.Upsert(branchID, totalVolumes); err != nil {
		return err
	}
	metrics.BranchTotalsSet.Inc()
	logger.Infow("branch_total_set", "branch_id", branchID, "total_volumes", totalVolumes)
	return nil
}

// GetTotal 获取分支应扫件数
func (s *BranchTotalService) GetTotal(branchID string) (int, error) {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return 0, ErrBranchTotalNotFound
	}
	total, err := s.repo.GetByBranchID(branchID)
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, ErrBranchTotalNotFound
	}
	return total.TotalVolumes, nil
}

// Summary 汇总分支已扫件数与应扫件数
func (s *BranchTotalService) Summary(branchID string) (*BranchSummary, error) {
	branchID = strings.TrimSpace(branchID)
	scanned, err := s.volumeRepo.CountByBranch(branchID)
	if err != nil {
		return nil, err
	}
	summary := &BranchSummary{
		BranchID:       branchID,
		ScannedVolumes: scanned,
	}
	total, err := s.GetTotal(branchID)
	if err != nil {
		if errors.Is(err, ErrBranchTotalNotFound) {
			return summary, nil
		}
		return nil, err
	}
	remaining := int64(total) - scanned
	if remaining < 0 {
		remaining = 0
	}
	summary.TotalVolumes = &total
	summary.RemainingVolumes = &remaining
	summary.Complete = scanned >= int64(total)
	return summary, nil
}
