package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/fretvault/api/internal/interface/http"
	"github.com/fretvault/api/pkg/helpers"
)

type TabModule struct {
	Handler *handlers.TabHandler
	JWT     *helpers.JWTManager
}

func NewTabModule(h *handlers.TabHandler, jwt *helpers.JWTManager) *TabModule {
	return &TabModule{Handler: h, JWT: jwt}
}

func (m *TabModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT)
	{
		auth.GET("/tabs", m.Handler.List)
		auth.POST("/tabs", m.Handler.Create)
		auth.GET("/tabs/search", m.Handler.Search)
		auth.GET("/tabs/:id", m.Handler.Get)
		auth.PATCH("/tabs/:id", m.Handler.Update)
		auth.DELETE("/tabs/:id", m.Handler.Delete)
		auth.GET("/tabs/:id/revisions", m.Handler.Revisions)
		auth.GET("/tabs/:id/revisions/:version", m.Handler.Revision)
		auth.POST("/tabs/:id/revisions/:version/restore", m.Handler.Restore)
	}
}
