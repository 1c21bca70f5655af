package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/fretvault/api/internal/interface/http"
)

// HealthModule is mounted at the engine root: GET /healthz
type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Handler.Healthz)
}
