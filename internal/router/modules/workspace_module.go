package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/fretvault/api/internal/interface/http"
	"github.com/fretvault/api/pkg/helpers"
)

// WorkspaceModule serves workspaces, their members and the notes inside them.
type WorkspaceModule struct {
	Workspaces *handlers.WorkspaceHandler
	Notes      *handlers.NoteHandler
	JWT        *helpers.JWTManager
}

func NewWorkspaceModule(ws *handlers.WorkspaceHandler, notes *handlers.NoteHandler, jwt *helpers.JWTManager) *WorkspaceModule {
	return &WorkspaceModule{Workspaces: ws, Notes: notes, JWT: jwt}
}

func (m *WorkspaceModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT)
	{
		auth.GET("/workspaces", m.Workspaces.List)
		auth.POST("/workspaces", m.Workspaces.Create)
		auth.GET("/workspaces/:id", m.Workspaces.Get)
		auth.POST("/workspaces/:id/members", m.Workspaces.AddMember)
		auth.DELETE("/workspaces/:id/members/:userId", m.Workspaces.RemoveMember)

		auth.GET("/workspaces/:id/notes", m.Notes.List)
		auth.POST("/workspaces/:id/notes", m.Notes.Create)
		auth.GET("/workspaces/:id/notes/search", m.Notes.Search)
		auth.GET("/workspaces/:id/notes/:slug", m.Notes.Get)
		auth.PATCH("/workspaces/:id/notes/:slug", m.Notes.Update)
		auth.DELETE("/workspaces/:id/notes/:slug", m.Notes.Delete)
		auth.GET("/workspaces/:id/notes/:slug/links", m.Notes.Links)
		auth.GET("/workspaces/:id/notes/:slug/backlinks", m.Notes.Backlinks)
		auth.GET("/workspaces/:id/notes/:slug/render", m.Notes.Render)
		auth.GET("/workspaces/:id/notes/:slug/markdown", m.Notes.Markdown)
	}
}
