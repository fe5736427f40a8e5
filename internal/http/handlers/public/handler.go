package public

import "github.com/slabmarket-next/internal/provider"

// Handler 买家侧 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建买家侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
