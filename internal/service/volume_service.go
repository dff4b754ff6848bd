package service

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/volumescan/internal/constants"
	"github.com/volumescan/internal/logger"
	"github.com/volumescan/internal/metrics"
	"github.com/volumescan/internal/models"
	"github.com/volumescan/internal/queue"
	"github.com/volumescan/internal/repository"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// SessionNotifier 会话清空通知投递
type SessionNotifier interface {
	EnqueueSessionClosed(payload queue.SessionClosedPayload, opts ...asynq.Option) error
}

// VolumeService 扫码记录业务服务
type VolumeService struct {
	repo      repository.VolumeRepository
	totalRepo repository.BranchTotalRepository
	notifier  SessionNotifier
	now       func() time.Time
}

// NewVolumeService 创建扫码记录服务
func NewVolumeService(
	repo repository.VolumeRepository,
	totalRepo repository.BranchTotalRepository,
	notifier SessionNotifier,
) *VolumeService {
	return &VolumeService{
		repo:      repo,
		totalRepo: totalRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// AddVolumeInput 扫码登记输入
type AddVolumeInput struct {
	Barcode  string
	BranchID string
	OrderID  string
	VolumeID string
}

// List 按扫码顺序返回全部记录
func (s *VolumeService) List() ([]models.Volume, error) {
	return s.repo.List(repository.VolumeListFilter{})
}

// ListByBranch 返回指定分支的记录，分支为空时返回全部
func (s *VolumeService) ListByBranch(branchID string) ([]models.Volume, error) {
	return s.repo.List(repository.VolumeListFilter{BranchID: strings.TrimSpace(branchID)})
}

// Add 登记一次扫码，条码重复时返回 ErrVolumeDuplicate
func (s *VolumeService) Add(input AddVolumeInput) (*models.Volume, error) {
	input = normalizeAddVolumeInput(input)
	if err := validateAddVolumeInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByBarcode(input.Barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.DuplicateScans.Inc()
		logger.Infow("volume_duplicate_rejected", "barcode", input.Barcode, "branch_id", input.BranchID)
		return nil, ErrVolumeDuplicate
	}

	volume := &models.Volume{
		Barcode:   input.Barcode,
		BranchID:  input.BranchID,
		OrderID:   input.OrderID,
		VolumeID:  input.VolumeID,
		ScannedAt: scanTimestamp(s.now()),
	}
	if err := s.repo.Create(volume); err != nil {
		// 并发扫码时读取检查可能放行，唯一约束兜底
		if errors.Is(err, repository.ErrDuplicateKey) {
			metrics.DuplicateScans.Inc()
			logger.Infow("volume_duplicate_rejected_on_insert", "barcode", input.Barcode, "branch_id", input.BranchID)
			return nil, ErrVolumeDuplicate
		}
		return nil, err
	}

	metrics.VolumesScanned.Inc()
	logger.Infow("volume_added",
		"id", volume.ID,
		"barcode", volume.Barcode,
		"branch_id", volume.BranchID,
		"order_id", volume.OrderID,
		"volume_id", volume.VolumeID,
	)
	return volume, nil
}

// Delete 按条码删除记录
func (s *VolumeService) Delete(barcode string) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return ErrVolumeNotFound
	}
	affected, err := s.repo.DeleteByBarcode(barcode)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVolumeNotFound
	}
	metrics.VolumesDeleted.Inc()
	logger.Infow("volume_deleted", "barcode", barcode)
	return nil
}

// ClearAll 在同一事务内清空扫码记录与分支应扫件数，并投递对账快照
func (s *VolumeService) ClearAll() error {
	payload := queue.SessionClosedPayload{ClosedAt: s.now().UTC()}
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		volumeRepo := s.repo.WithTx(tx)
		totalRepo := s.totalRepo.WithTx(tx)

		counts, err := volumeRepo.CountGroupedByBranch()
		if err != nil {
			return err
		}
		totals, err := totalRepo.List()
		if err != nil {
			return err
		}
		payload.Branches = buildBranchSnapshots(counts, totals)

		if err := volumeRepo.DeleteAll(); err != nil {
			return err
		}
		return totalRepo.DeleteAll()
	})
	if err != nil {
		return err
	}

	metrics.SessionsCleared.Inc()
	logger.Infow("session_cleared", "branches", len(payload.Branches))

	if s.notifier != nil {
		if err := s.notifier.EnqueueSessionClosed(payload); err != nil {
			logger.Warnw("session_clear_enqueue_failed", "branches", len(payload.Branches), "error", err)
		}
	}
	return nil
}

// scanTimestamp 转为 UTC 并向上取整到微秒，不早于请求时刻
func scanTimestamp(now time.Time) time.Time {
	now = now.UTC()
	truncated := now.Truncate(time.Microsecond)
	if truncated.Before(now) {
		return truncated.Add(time.Microsecond)
	}
	return truncated
}

func normalizeAddVolumeInput(input AddVolumeInput) AddVolumeInput {
	return AddVolumeInput{
		Barcode:  strings.TrimSpace(input.Barcode),
		BranchID: strings.TrimSpace(input.BranchID),
		OrderID:  strings.TrimSpace(input.OrderID),
		VolumeID: strings.TrimSpace(input.VolumeID),
	}
}

func validateAddVolumeInput(input AddVolumeInput) error {
	if input.Barcode == "" || utf8.RuneCountInString(input.Barcode) > constants.BarcodeMaxLength {
		return ErrInvalidVolume
	}
	for _, code := range []string{input.BranchID, input.OrderID, input.VolumeID} {
		if code == "" || utf8.RuneCountInString(code) > constants.ShortCodeMaxLength {
			return ErrInvalidVolume
		}
	}
	return nil
}

// buildBranchSnapshots 合并已扫件数与申报件数，按分支编码排序
func buildBranchSnapshots(counts []repository.BranchVolumeCount, totals []models.BranchTotal) []queue.BranchSnapshot {
	index := make(map[string]*queue.BranchSnapshot, len(counts)+len(totals))
	for _, count := range counts {
		index[count.BranchID] = &queue.BranchSnapshot{BranchID: count.BranchID, ScannedVolumes: count.Count}
	}
	for _, total := range totals {
		declared := total.TotalVolumes
		snapshot, ok := index[total.BranchID]
		if !ok {
			snapshot = &queue.BranchSnapshot{BranchID: total.BranchID}
			index[total.BranchID] = snapshot
		}
		snapshot.TotalVolumes = &declared
	}
	snapshots := make([]queue.BranchSnapshot, 0, len(index))
	for _, snapshot := range index {
		snapshots = append(snapshots, *snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].BranchID < snapshots[j].BranchID
	})
	return snapshots
}
