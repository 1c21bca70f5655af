package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fretvault/api/internal/container"
	"github.com/fretvault/api/internal/interface/middleware"
	"github.com/fretvault/api/pkg/helpers"
)

// protected returns a group that requires a live session, with the shared
// per-IP and per-user limits every authenticated route carries.
func protected(rg *gin.RouterGroup, jwt *helpers.JWTManager) *gin.RouterGroup {
	rdb := container.GetRedis()
	auth := rg.Group("/")
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.Auth(rdb, jwt),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	return auth
}
