package router

import "github.com/gin-gonic/gin"

// APIPrefix is where every feature module is mounted.
const APIPrefix = "/api"

// Registry collects modules during startup and mounts them in one pass.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	apiMiddleware []gin.HandlerFunc
	apiModules    []Module
	rootModules   []Module
	mounted       bool
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(APIPrefix)}
}

// Use adds middleware that runs only for routes under APIPrefix.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.apiMiddleware = append(r.apiMiddleware, mw...)
}

// Add queues modules for APIPrefix.
func (r *Registry) Add(mods ...Module) {
	r.apiModules = append(r.apiModules, mods...)
}

// AddRoot queues modules mounted on the bare engine, outside APIPrefix middleware.
func (r *Registry) AddRoot(mods ...Module) {
	r.rootModules = append(r.rootModules, mods...)
}

// RegisterAll mounts root modules first, then API middleware and modules.
// Later calls are no-ops; gin panics on duplicate routes.
func (r *Registry) RegisterAll() {
	if r.mounted {
		return
	}
	r.mounted = true
	for _, m := range r.rootModules {
		m.Register(&r.Engine.RouterGroup)
	}
	if len(r.apiMiddleware) > 0 {
		r.API.Use(r.apiMiddleware...)
	}
	for _, m := range r.apiModules {
		m.Register(r.API)
	}
}
