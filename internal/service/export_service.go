package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/volumescan/internal/constants"
	"github.com/volumescan/internal/logger"
	"github.com/volumescan/internal/repository"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []interface{}{"ID", "Código de barras", "Filial", "Pedido", "Volume", "Lido em"}

// ExportService 扫码记录导出服务
type ExportService struct {
	repo repository.VolumeRepository
	now  func() time.Time
}

// NewExportService 创建导出服务
func NewExportService(repo repository.VolumeRepository) *ExportService {
	return &ExportService{repo: repo, now: time.Now}
}

// VolumeExport 导出结果
type VolumeExport struct {
	Filename string
	Rows     int
	Content  []byte
}

// ExportVolumes 将扫码记录按扫码顺序写入 xlsx，分支为空时导出全部
func (s *ExportService) ExportVolumes(branchID string) (*VolumeExport, error) {
	branchID = strings.TrimSpace(branchID)
	volumes, err := s.repo.List(repository.VolumeListFilter{BranchID: branchID})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := constants.ExportSheetName
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "F1", style)
	}
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "F", "F", 30)

	row := 2
	for _, volume := range volumes {
		excelRow := []interface{}{
			volume.ID,
			volume.Barcode,
			volume.BranchID,
			volume.OrderID,
			volume.VolumeID,
			volume.ScannedAt.UTC().Format(time.RFC3339Nano),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	logger.Infow("volumes_exported", "branch_id", branchID, "rows", len(volumes))
	return &VolumeExport{
		Filename: buildExportFilename(branchID, s.now()),
		Rows:     len(volumes),
		Content:  buf.Bytes(),
	}, nil
}

func buildExportFilename(branchID string, now time.Time) string {
	parts := []string{constants.ExportFilePrefix}
	if safe := sanitizeFilenamePart(branchID); safe != "" {
		parts = append(parts, safe)
	}
	parts = append(parts, now.UTC().Format("20060102_150405"))
	return strings.Join(parts, "_") + ".xlsx"
}

func sanitizeFilenamePart(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(value))
}
