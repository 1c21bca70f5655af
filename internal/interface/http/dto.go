package handlers

import (
	"time"

	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/internal/domain/entity"
)

type userDTO struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toUserDTO(u *entity.User) userDTO {
	return userDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type tokenMeta struct {
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type authDTO struct {
	User        userDTO `json:"user"`
	AccessToken string  `json:"access_token"`
}

type planDTO struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	GoalMinutesPerDay int       `json:"goal_minutes_per_day"`
	IsArchived        bool      `json:"is_archived"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type planDetailDTO struct {
	planDTO
	Items []itemDTO `json:"items"`
}

func toPlanDTO(p *entity.PracticePlan) planDTO {
	return planDTO{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		GoalMinutesPerDay: p.GoalMinutesPerDay,
		IsArchived:        p.IsArchived,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toPlanDetailDTO(p *entity.PracticePlan) planDetailDTO {
	return planDetailDTO{planDTO: toPlanDTO(p), Items: toItemDTOs(p.Items)}
}

type itemDTO struct {
	ID              string    `json:"id"`
	PlanID          string    `json:"plan_id"`
	Title           string    `json:"title"`
	Notes           string    `json:"notes"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	TargetBPM       *int      `json:"target_bpm"`
	TabID           *string   `json:"tab_id"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toItemDTO(it *entity.PracticeItem) itemDTO {
	return itemDTO{
		ID:              it.ID,
		PlanID:          it.PlanID,
		Title:           it.Title,
		Notes:           it.Notes,
		Category:        string(it.Category),
		DurationMinutes: it.DurationMinutes,
		TargetBPM:       it.TargetBPM,
		TabID:           it.TabID,
		Position:        it.Position,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}

func toItemDTOs(items []entity.PracticeItem) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for i := range items {
		out = append(out, toItemDTO(&items[i]))
	}
	return out
}

type logDTO struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	Minutes     int       `json:"minutes"`
	BPM         *int      `json:"bpm"`
	Note        string    `json:"note"`
	PracticedAt time.Time `json:"practiced_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLogDTO(l *entity.PracticeLog) logDTO {
	return logDTO{
		ID:          l.ID,
		ItemID:      l.ItemID,
		Minutes:     l.Minutes,
		BPM:         l.BPM,
		Note:        l.Note,
		PracticedAt: l.PracticedAt,
		CreatedAt:   l.CreatedAt,
	}
}

type tabDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Tuning    string    `json:"tuning"`
	Capo      int       `json:"capo"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTabDTO(t *entity.Tab) tabDTO {
	return tabDTO{
		ID:        t.ID,
		Title:     t.Title,
		Artist:    t.Artist,
		Tuning:    t.Tuning,
		Capo:      t.Capo,
		Content:   t.Content,
		Version:   t.Version,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type revisionDTO struct {
	Version   int       `json:"version"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Tuning    string    `json:"tuning"`
	Capo      int       `json:"capo"`
	Content   string    `json:"content,omitempty"`
	Message   string    `json:"message"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toRevisionDTO(r *entity.TabRevision) revisionDTO {
	return revisionDTO{
		Version:   r.Version,
		Title:     r.Title,
		Artist:    r.Artist,
		Tuning:    r.Tuning,
		Capo:      r.Capo,
		Content:   r.Content,
		Message:   r.Message,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

type fileDTO struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UploadedAt  *time.Time `json:"uploaded_at"`
}

func toFileDTO(f *entity.StoredFile) fileDTO {
	return fileDTO{
		ID:          f.ID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
		UploadedAt:  f.UploadedAt,
	}
}

type uploadDTO struct {
	File      fileDTO           `json:"file"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func toUploadDTO(u *application.PresignedUpload) uploadDTO {
	return uploadDTO{
		File:      toFileDTO(u.File),
		UploadURL: u.URL,
		Method:    u.Method,
		Headers:   u.Headers,
		ExpiresAt: u.ExpiresAt,
	}
}

type downloadDTO struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type workspaceDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Kind      string    `json:"kind"`
	OwnerID   string    `json:"owner_id"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toWorkspaceDTO(w *entity.Workspace, role entity.Role) workspaceDTO {
	return workspaceDTO{
		ID:        w.ID,
		Name:      w.Name,
		Slug:      w.Slug,
		Kind:      string(w.Kind),
		OwnerID:   w.OwnerID,
		Role:      string(role),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type memberDTO struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toMemberDTO(m *entity.WorkspaceMember) memberDTO {
	return memberDTO{
		UserID:    m.UserID,
		Name:      m.UserName,
		Email:     m.UserEmail,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

type workspaceDetailDTO struct {
	workspaceDTO
	Members []memberDTO `json:"members"`
}

type noteDTO struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    string    `json:"author_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toNoteDTO(n *entity.Note) noteDTO {
	return noteDTO{
		ID:          n.ID,
		WorkspaceID: n.WorkspaceID,
		Slug:        n.Slug,
		Title:       n.Title,
		Content:     n.Content,
		AuthorID:    n.AuthorID,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

type noteSummaryDTO struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteSummaryDTOs(list []entity.NoteSummary) []noteSummaryDTO {
	out := make([]noteSummaryDTO, 0, len(list))
	for _, s := range list {
		out = append(out, noteSummaryDTO{ID: s.ID, Slug: s.Slug, Title: s.Title, UpdatedAt: s.UpdatedAt})
	}
	return out
}
