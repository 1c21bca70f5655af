package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/internal/domain/entity"
	"github.com/fretvault/api/pkg/response"
)

type PracticeHandler struct {
	Svc    *application.PracticeService
	Logger *logrus.Logger
}

func NewPracticeHandler(svc *application.PracticeService, logger *logrus.Logger) *PracticeHandler {
	return &PracticeHandler{Svc: svc, Logger: logger}
}

type listPlansQuery struct {
	Archived *bool `form:"archived"`
}

type planRequest struct {
	Title             string `json:"title" binding:"required,max=200"`
	Description       string `json:"description" binding:"max=5000"`
	GoalMinutesPerDay int    `json:"goal_minutes_per_day" binding:"min=0,max=1440"`
}

type planPatchRequest struct {
	Title             *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description       *string `json:"description" binding:"omitempty,max=5000"`
	GoalMinutesPerDay *int    `json:"goal_minutes_per_day" binding:"omitempty,min=0,max=1440"`
	IsArchived        *bool   `json:"is_archived"`
}

type reorderRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required,dive,required"`
}

type statsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=90"`
}

type listItemsQuery struct {
	PlanID string `form:"plan_id" binding:"required"`
}

type itemRequest struct {
	PlanID          string  `json:"plan_id" binding:"required"`
	Title           string  `json:"title" binding:"required,max=200"`
	Notes           string  `json:"notes" binding:"max=5000"`
	Category        string  `json:"category" binding:"omitempty,category"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=600"`
	TargetBPM       *int    `json:"target_bpm" binding:"omitempty,min=20,max=400"`
	TabID           *string `json:"tab_id"`
}

// A target_bpm of 0 or an empty tab_id clears the value.
type itemPatchRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=200"`
	Notes           *string `json:"notes" binding:"omitempty,max=5000"`
	Category        *string `json:"category" binding:"omitempty,category"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	TargetBPM       *int    `json:"target_bpm" binding:"omitempty,bpm_clearable"`
	TabID           *string `json:"tab_id"`
}

type logRequest struct {
	Minutes     int        `json:"minutes" binding:"required,min=1,max=600"`
	BPM         *int       `json:"bpm" binding:"omitempty,min=20,max=400"`
	Note        string     `json:"note" binding:"max=1000"`
	PracticedAt *time.Time `json:"practiced_at"`
}

// ListPlans GET /api/practice-plans
func (h *PracticeHandler) ListPlans(c *gin.Context) {
	var q listPlansQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	plans, err := h.Svc.ListPlans(c.Request.Context(), userID(c), q.Archived)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]planDTO, 0, len(plans))
	for i := range plans {
		out = append(out, toPlanDTO(&plans[i]))
	}
	response.Success(c, http.StatusOK, out, "practice plans", response.Page{Count: len(out)})
}

// CreatePlan POST /api/practice-plans
func (h *PracticeHandler) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.CreatePlan(c.Request.Context(), userID(c), application.PlanInput{
		Title:             req.Title,
		Description:       req.Description,
		GoalMinutesPerDay: req.GoalMinutesPerDay,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPlanDetailDTO(p), "practice plan created", nil)
}

// GetPlan GET /api/practice-plans/:id
func (h *PracticeHandler) GetPlan(c *gin.Context) {
	p, err := h.Svc.GetPlan(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPlanDetailDTO(p), "practice plan", nil)
}

// UpdatePlan PATCH /api/practice-plans/:id
func (h *PracticeHandler) UpdatePlan(c *gin.Context) {
	var req planPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.UpdatePlan(c.Request.Context(), userID(c), c.Param("id"), application.PlanPatch{
		Title:             req.Title,
		Description:       req.Description,
		GoalMinutesPerDay: req.GoalMinutesPerDay,
		IsArchived:        req.IsArchived,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPlanDetailDTO(p), "practice plan updated", nil)
}

// DeletePlan DELETE /api/practice-plans/:id
func (h *PracticeHandler) DeletePlan(c *gin.Context) {
	if err := h.Svc.DeletePlan(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "practice plan deleted", nil)
}

// ReorderItems PUT /api/practice-plans/:id/items/order
func (h *PracticeHandler) ReorderItems(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.ReorderItems(c.Request.Context(), userID(c), c.Param("id"), req.ItemIDs)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPlanDetailDTO(p), "items reordered", nil)
}

// Stats GET /api/practice-plans/:id/stats
func (h *PracticeHandler) Stats(c *gin.Context) {
	var q statsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	st, err := h.Svc.Stats(c.Request.Context(), userID(c), c.Param("id"), q.Days)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, st, "practice stats", nil)
}

// ListItems GET /api/practice-items?plan_id=
func (h *PracticeHandler) ListItems(c *gin.Context) {
	var q listItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badPayload(c, err)
		return
	}
	items, err := h.Svc.ListItems(c.Request.Context(), userID(c), q.PlanID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := toItemDTOs(items)
	response.Success(c, http.StatusOK, out, "practice items", response.Page{Count: len(out)})
}

// CreateItem POST /api/practice-items
func (h *PracticeHandler) CreateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	it, err := h.Svc.CreateItem(c.Request.Context(), userID(c), application.ItemInput{
		PlanID:          req.PlanID,
		Title:           req.Title,
		Notes:           req.Notes,
		Category:        entity.ItemCategory(req.Category),
		DurationMinutes: req.DurationMinutes,
		TargetBPM:       req.TargetBPM,
		TabID:           req.TabID,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toItemDTO(it), "practice item created", nil)
}

// GetItem GET /api/practice-items/:id
func (h *PracticeHandler) GetItem(c *gin.Context) {
	it, err := h.Svc.GetItem(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toItemDTO(it), "practice item", nil)
}

// UpdateItem PATCH /api/practice-items/:id
func (h *PracticeHandler) UpdateItem(c *gin.Context) {
	var req itemPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	patch := application.ItemPatch{
		Title:           req.Title,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes,
		TargetBPM:       req.TargetBPM,
		TabID:           req.TabID,
	}
	if req.Category != nil {
		cat := entity.ItemCategory(*req.Category)
		patch.Category = &cat
	}
	it, err := h.Svc.UpdateItem(c.Request.Context(), userID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toItemDTO(it), "practice item updated", nil)
}

// DeleteItem DELETE /api/practice-items/:id
func (h *PracticeHandler) DeleteItem(c *gin.Context) {
	if err := h.Svc.DeleteItem(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "practice item deleted", nil)
}

// AddLog POST /api/practice-items/:id/logs
func (h *PracticeHandler) AddLog(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	l, err := h.Svc.AddLog(c.Request.Context(), userID(c), c.Param("id"), application.LogInput{
		Minutes:     req.Minutes,
		BPM:         req.BPM,
		Note:        req.Note,
		PracticedAt: req.PracticedAt,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toLogDTO(l), "practice logged", nil)
}

// ListLogs GET /api/practice-items/:id/logs
func (h *PracticeHandler) ListLogs(c *gin.Context) {
	logs, err := h.Svc.ListLogs(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]logDTO, 0, len(logs))
	for i := range logs {
		out = append(out, toLogDTO(&logs[i]))
	}
	response.Success(c, http.StatusOK, out, "practice logs", response.Page{Count: len(out)})
}
