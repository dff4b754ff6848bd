package api

import "github.com/volumescan/internal/provider"

// Handler 扫码接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
