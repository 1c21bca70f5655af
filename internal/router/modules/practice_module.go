package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/fretvault/api/internal/interface/http"
	"github.com/fretvault/api/pkg/helpers"
)

type PracticeModule struct {
	Handler *handlers.PracticeHandler
	JWT     *helpers.JWTManager
}

func NewPracticeModule(h *handlers.PracticeHandler, jwt *helpers.JWTManager) *PracticeModule {
	return &PracticeModule{Handler: h, JWT: jwt}
}

func (m *PracticeModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT)
	{
		auth.GET("/practice-plans", m.Handler.ListPlans)
		auth.POST("/practice-plans", m.Handler.CreatePlan)
		auth.GET("/practice-plans/:id", m.Handler.GetPlan)
		auth.PATCH("/practice-plans/:id", m.Handler.UpdatePlan)
		auth.DELETE("/practice-plans/:id", m.Handler.DeletePlan)
		auth.PUT("/practice-plans/:id/items/order", m.Handler.ReorderItems)
		auth.GET("/practice-plans/:id/stats", m.Handler.Stats)

		auth.GET("/practice-items", m.Handler.ListItems)
		auth.POST("/practice-items", m.Handler.CreateItem)
		auth.GET("/practice-items/:id", m.Handler.GetItem)
		auth.PATCH("/practice-items/:id", m.Handler.UpdateItem)
		auth.DELETE("/practice-items/:id", m.Handler.DeleteItem)
		auth.POST("/practice-items/:id/logs", m.Handler.AddLog)
		auth.GET("/practice-items/:id/logs", m.Handler.ListLogs)
	}
}
