package modules

import (
	"expvar"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fretvault/api/internal/container"
	"github.com/fretvault/api/internal/interface/middleware"
)

var (
	publishOnce sync.Once
	startedAt   = time.Now()
)

// publishRuntimeVars adds process gauges next to expvar's memstats and cmdline.
func publishRuntimeVars() {
	publishOnce.Do(func() {
		expvar.Publish("uptime_seconds", expvar.Func(func() any { return int64(time.Since(startedAt).Seconds()) }))
		expvar.Publish("goroutines", expvar.Func(func() any { return runtime.NumGoroutine() }))
		expvar.Publish("pg_pool", expvar.Func(func() any {
			pool := container.GetPGPool()
			if pool == nil {
				return nil
			}
			s := pool.Stat()
			return map[string]int32{"total": s.TotalConns(), "idle": s.IdleConns(), "acquired": s.AcquiredConns()}
		}))
	})
}

// DebugModule serves /debug/vars; it is only registered when DEBUG_METRICS_ENABLED is set.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishRuntimeVars()
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
