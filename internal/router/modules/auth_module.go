package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fretvault/api/internal/container"
	handlers "github.com/fretvault/api/internal/interface/http"
	"github.com/fretvault/api/internal/interface/middleware"
	"github.com/fretvault/api/pkg/helpers"
)

// AuthModule routes:
// Public: POST /auth/register, /auth/login, /auth/refresh, /auth/password/forgot, /auth/password/reset
// Protected: POST /auth/logout, GET|PATCH /auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/auth/password/forgot", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/password/reset", resetLimiter, m.Handler.ResetPassword)

	auth := protected(rg, m.JWT)
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/auth/me", m.Handler.Me)
		auth.PATCH("/auth/me", m.Handler.UpdateMe)
	}
}
