package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success 成功响应 {success:true, ...fields}
func Success(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for key, value := range fields {
		body[key] = value
	}
	c.JSON(http.StatusOK, body)
}

// Data 直接输出数据（列表等非包装结构）
func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 错误响应 {success:false, message}
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（附加字段），message 为空时不输出
func ErrorWithData(c *gin.Context, statusCode int, msg string, data gin.H) {
	body := gin.H{"success": false}
	if msg != "" {
		body["message"] = msg
	}
	for key, value := range data {
		body[key] = value
	}
	if statusCode >= http.StatusInternalServerError {
		attachRequestID(c, body)
	}
	c.JSON(statusCode, body)
}

func attachRequestID(c *gin.Context, body gin.H) {
	if c == nil {
		return
	}
	value, ok := c.Get("request_id")
	if !ok {
		return
	}
	if id, ok := value.(string); ok && id != "" {
		if _, exists := body["request_id"]; !exists {
			body["request_id"] = id
		}
	}
}
