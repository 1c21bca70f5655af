package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fretvault/api/internal/container"
	handlers "github.com/fretvault/api/internal/interface/http"
	"github.com/fretvault/api/internal/interface/middleware"
	"github.com/fretvault/api/pkg/helpers"
)

type FileModule struct {
	Handler *handlers.FileHandler
	JWT     *helpers.JWTManager
}

func NewFileModule(h *handlers.FileHandler, jwt *helpers.JWTManager) *FileModule {
	return &FileModule{Handler: h, JWT: jwt}
}

func (m *FileModule) Register(rg *gin.RouterGroup) {
	presignLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)

	auth := protected(rg, m.JWT)
	{
		auth.GET("/files", m.Handler.List)
		auth.POST("/files/upload-url", presignLimiter, m.Handler.UploadURL)
		auth.POST("/files/:id/complete", m.Handler.Complete)
		auth.GET("/files/:id/download-url", m.Handler.DownloadURL)
		auth.DELETE("/files/:id", m.Handler.Delete)
	}
}
