package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/pkg/response"
)

type WorkspaceHandler struct {
	Svc    *application.WorkspaceService
	Logger *logrus.Logger
}

func NewWorkspaceHandler(svc *application.WorkspaceService, logger *logrus.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{Svc: svc, Logger: logger}
}

type workspaceRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Kind string `json:"kind" binding:"omitempty,oneof=personal band"`
}

type memberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,member_role"`
}

// List GET /api/workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]workspaceDTO, 0, len(list))
	for i := range list {
		out = append(out, toWorkspaceDTO(&list[i].Workspace, list[i].Role))
	}
	response.Success(c, http.StatusOK, out, "workspaces", response.Page{Count: len(out)})
}

// Create POST /api/workspaces
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req workspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	w, err := h.Svc.Create(c.Request.Context(), userID(c), req.Name, entity.WorkspaceKind(req.Kind))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toWorkspaceDTO(w, entity.RoleOwner), "workspace created", nil)
}

// Get GET /api/workspaces/:id
func (h *WorkspaceHandler) Get(c *gin.Context) {
	d, err := h.Svc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := workspaceDetailDTO{
		workspaceDTO: toWorkspaceDTO(&d.Workspace, d.Role),
		Members:      make([]memberDTO, 0, len(d.Members)),
	}
	for i := range d.Members {
		out.Members = append(out.Members, toMemberDTO(&d.Members[i]))
	}
	response.Success(c, http.StatusOK, out, "workspace", nil)
}

// AddMember POST /api/workspaces/:id/members
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	m, err := h.Svc.AddMember(c.Request.Context(), userID(c), c.Param("id"), req.Email, entity.Role(req.Role))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toMemberDTO(m), "member added", nil)
}

// RemoveMember DELETE /api/workspaces/:id/members/:userId
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	if err := h.Svc.RemoveMember(c.Request.Context(), userID(c), c.Param("id"), c.Param("userId")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "member removed", nil)
}
