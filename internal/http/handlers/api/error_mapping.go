package api

import (
	"net/http"

	"github.com/volumescan/internal/constants"
	"github.com/volumescan/internal/http/handlers/shared"
	"github.com/volumescan/internal/service"

	"github.com/gin-gonic/gin"
)

var addVolumeErrorRules = []shared.MappedError{
	{Target: service.ErrVolumeDuplicate, Code: http.StatusBadRequest, Msg: constants.MsgVolumeDuplicate, Data: gin.H{"isDuplicate": true}},
	{Target: service.ErrInvalidVolume, Code: http.StatusBadRequest, Msg: constants.MsgInvalidPayload},
}

var deleteVolumeErrorRules = []shared.MappedError{
	{Target: service.ErrVolumeNotFound, Code: http.StatusNotFound, Msg: constants.MsgVolumeNotFound},
}

var setBranchTotalErrorRules = []shared.MappedError{
	{Target: service.ErrInvalidBranchTotal, Code: http.StatusBadRequest, Msg: constants.MsgInvalidPayload},
}

var getBranchTotalErrorRules = []shared.MappedError{
	{Target: service.ErrBranchTotalNotFound, Code: http.StatusNotFound, Data: gin.H{"totalVolumes": nil}},
}

func respondAddVolumeError(c *gin.Context, err error) {
	shared.RespondWithMappedError(c, err, addVolumeErrorRules, http.StatusInternalServerError, constants.MsgInternalError)
}

func respondDeleteVolumeError(c *gin.Context, err error) {
	shared.RespondWithMappedError(c, err, deleteVolumeErrorRules, http.StatusInternalServerError, constants.MsgInternalError)
}

func respondSetBranchTotalError(c *gin.Context, err error) {
	shared.RespondWithMappedError(c, err, setBranchTotalErrorRules, http.StatusInternalServerError, constants.MsgInternalError)
}

func respondGetBranchTotalError(c *gin.Context, err error) {
	shared.RespondWithMappedError(c, err, getBranchTotalErrorRules, http.StatusInternalServerError, constants.MsgInternalError)
}

func respondInternalError(c *gin.Context, err error) {
	shared.RespondError(c, http.StatusInternalServerError, constants.MsgInternalError, err)
}

func respondInvalidPayload(c *gin.Context, err error) {
	shared.RequestLog(c).Debugw("handler_invalid_payload", "path", c.FullPath(), "error", err)
	shared.RespondError(c, http.StatusBadRequest, constants.MsgInvalidPayload, nil)
}
