package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/volumescan/internal/constants"
	"github.com/volumescan/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// ExportVolumes 导出扫码记录为 xlsx，可按 branchId 过滤
func (h *Handler) ExportVolumes(c *gin.Context) {
	result, err := h.ExportService.ExportVolumes(c.Query("branchId"))
	if err != nil {
		shared.RespondError(c, http.StatusInternalServerError, constants.MsgExportFailed, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Header("X-Export-Rows", strconv.Itoa(result.Rows))
	c.Data(http.StatusOK, constants.ExportContentType, result.Content)
}
