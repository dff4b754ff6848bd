package api

import (
	"strings"

	"github.com/volumescan/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SetBranchTotalRequest 申报应扫件数请求
type SetBranchTotalRequest struct {
	BranchID     string `json:"branchId" binding:"required,max=10"`
	TotalVolumes *int   `json:"totalVolumes" binding:"required,min=0"`
}

// SetBranchTotal 申报分支应扫件数
func (h *Handler) SetBranchTotal(c *gin.Context) {
	var req SetBranchTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, err)
		return
	}
	if err := h.BranchTotalService.SetTotal(req.BranchID, *req.TotalVolumes); err != nil {
		respondSetBranchTotalError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetBranchTotal 查询分支应扫件数
func (h *Handler) GetBranchTotal(c *gin.Context) {
	branchID := strings.TrimSpace(c.Param("branchId"))
	total, err := h.BranchTotalService.GetTotal(branchID)
	if err != nil {
		respondGetBranchTotalError(c, err)
		return
	}
	response.Success(c, gin.H{
		"branchId":     branchID,
		"totalVolumes": total,
	})
}

// GetBranchSummary 查询分支对账结果
func (h *Handler) GetBranchSummary(c *gin.Context) {
	summary, err := h.BranchTotalService.Summary(c.Param("branchId"))
	if err != nil {
		respondInternalError(c, err)
		return
	}
	response.Success(c, gin.H{
		"branchId":         summary.BranchID,
		"scannedVolumes":   summary.ScannedVolumes,
		"totalVolumes":     summary.TotalVolumes,
		"remainingVolumes": summary.RemainingVolumes,
		"complete":         summary.Complete,
	})
}
