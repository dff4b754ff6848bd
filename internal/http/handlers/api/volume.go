package api

import (
	"time"

	"github.com/volumescan/internal/http/response"
	"github.com/volumescan/internal/models"
	"github.com/volumescan/internal/service"

	"github.com/gin-gonic/gin"
)

// AddVolumeRequest 扫码登记请求
type AddVolumeRequest struct {
	Barcode  string `json:"barcode" binding:"required,max=50"`
	BranchID string `json:"branchId" binding:"required,max=10"`
	OrderID  string `json:"orderId" binding:"required,max=10"`
	VolumeID string `json:"volumeId" binding:"required,max=10"`
}

// VolumeResp 扫码记录响应
type VolumeResp struct {
	ID        uint   `json:"id"`
	Barcode   string `json:"barcode"`
	BranchID  string `json:"branchId"`
	OrderID   string `json:"orderId"`
	VolumeID  string `json:"volumeId"`
	ScannedAt string `json:"scannedAt"`
}

func toVolumeResp(volume models.Volume) VolumeResp {
	return VolumeResp{
		ID:        volume.ID,
		Barcode:   volume.Barcode,
		BranchID:  volume.BranchID,
		OrderID:   volume.OrderID,
		VolumeID:  volume.VolumeID,
		ScannedAt: formatTimestamp(volume.ScannedAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ListVolumes 按扫码顺序返回全部记录
func (h *Handler) ListVolumes(c *gin.Context) {
	volumes, err := h.VolumeService.List()
	if err != nil {
		respondInternalError(c, err)
		return
	}
	items := make([]VolumeResp, 0, len(volumes))
	for _, volume := range volumes {
		items = append(items, toVolumeResp(volume))
	}
	response.Data(c, items)
}

// AddVolume 登记一次扫码
func (h *Handler) AddVolume(c *gin.Context) {
	var req AddVolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	volume, err := h.VolumeService.Add(service.AddVolumeInput{
		Barcode:  req.Barcode,
		BranchID: req.BranchID,
		OrderID:  req.OrderID,
		VolumeID: req.VolumeID,
	})
	if err != nil {
		respondAddVolumeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"id":        volume.ID,
		"scannedAt": formatTimestamp(volume.ScannedAt),
	})
}

// DeleteVolume 按条码删除记录
func (h *Handler) DeleteVolume(c *gin.Context) {
	if err := h.VolumeService.Delete(c.Param("barcode")); err != nil {
		respondDeleteVolumeError(c, err)
		return
	}
	response.Success(c, nil)
}

// ClearVolumes 清空全部扫码记录与分支应扫件数
func (h *Handler) ClearVolumes(c *gin.Context) {
	if err := h.VolumeService.ClearAll(); err != nil {
		respondInternalError(c, err)
		return
	}
	response.Success(c, nil)
}
