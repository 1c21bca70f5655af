package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fretvault/api/config"
	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/internal/interface/middleware"
	"github.com/fretvault/api/internal/testsupport/memrepo"
	"github.com/fretvault/api/pkg/helpers"
	"github.com/fretvault/api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	helpers.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type memStore struct {
	objects map[string]helpers.ObjectAttrs
}

func (s *memStore) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?sig=put", nil
}

func (s *memStore) PresignGet(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?sig=get", nil
}

func (s *memStore) Stat(_ context.Context, key string) (helpers.ObjectAttrs, error) {
	a, ok := s.objects[key]
	if !ok {
		return helpers.ObjectAttrs{}, helpers.ErrObjectNotFound
	}
	return a, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	store  *memrepo.Store
	mr     *miniredis.Miniredis
	files  *memStore
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

type result struct {
	Code    int
	Header  http.Header
	Body    []byte
	Env     envelope
	Cookies []*http.Cookie
}

func (r result) data(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Env.Data, v), string(r.Body))
}

func (r result) details(t *testing.T) map[string]string {
	t.Helper()
	var d map[string]string
	require.NoError(t, json.Unmarshal(r.Env.Error, &d), string(r.Body))
	return d
}

// newTestAPI wires every handler over in-memory repositories and miniredis,
// with storage optionally left unconfigured.
func newTestAPI(t *testing.T, withStorage bool) *testAPI {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		AppName:               "FretVault",
		AppURL:                "https://app.test",
		ResetPasswordURL:      "https://app.test/reset-password",
		SessionTTL:            time.Hour,
		StoragePresignTTL:     15 * time.Minute,
		StorageMaxUploadBytes: 1 << 20,
	}
	logger := helpers.NewNopLogger()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	store := memrepo.New()

	api := &testAPI{t: t, engine: gin.New(), store: store, mr: mr}
	var objects application.ObjectStore
	if withStorage {
		api.files = &memStore{objects: map[string]helpers.ObjectAttrs{}}
		objects = api.files
	}

	authH := NewAuthHandler(application.NewAuthService(store.Users(), store.Workspaces(), jwt, rdb, nil, cfg, logger), logger, "", false)
	practiceH := NewPracticeHandler(application.NewPracticeService(store.Plans(), store.Items(), store.Tabs(), logger), logger)
	tabH := NewTabHandler(application.NewTabService(store.Tabs(), nil, "tabs", logger), logger)
	fileH := NewFileHandler(application.NewStorageService(store.Files(), objects, cfg.StoragePresignTTL, cfg.StorageMaxUploadBytes, logger), logger)
	wsH := NewWorkspaceHandler(application.NewWorkspaceService(store.Workspaces(), store.Users(), nil, cfg, logger), logger)
	noteH := NewNoteHandler(application.NewNoteService(store.Notes(), store.Workspaces(), nil, "notes", logger), logger)

	r := api.engine
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/healthz", NewHealthHandler(nil, rdb).Healthz)
	g := r.Group("/api")
	g.POST("/auth/register", authH.Register)
	g.POST("/auth/login", authH.Login)
	g.POST("/auth/refresh", authH.Refresh)
	g.POST("/auth/password/forgot", authH.ForgotPassword)
	g.POST("/auth/password/reset", authH.ResetPassword)

	a := g.Group("/", middleware.Auth(rdb, jwt))
	a.POST("/auth/logout", authH.Logout)
	a.GET("/auth/me", authH.Me)
	a.PATCH("/auth/me", authH.UpdateMe)

	a.GET("/practice-plans", practiceH.ListPlans)
	a.POST("/practice-plans", practiceH.CreatePlan)
	a.GET("/practice-plans/:id", practiceH.GetPlan)
	a.PATCH("/practice-plans/:id", practiceH.UpdatePlan)
	a.DELETE("/practice-plans/:id", practiceH.DeletePlan)
	a.PUT("/practice-plans/:id/items/order", practiceH.ReorderItems)
	a.GET("/practice-plans/:id/stats", practiceH.Stats)
	a.GET("/practice-items", practiceH.ListItems)
	a.POST("/practice-items", practiceH.CreateItem)
	a.GET("/practice-items/:id", practiceH.GetItem)
	a.PATCH("/practice-items/:id", practiceH.UpdateItem)
	a.DELETE("/practice-items/:id", practiceH.DeleteItem)
	a.POST("/practice-items/:id/logs", practiceH.AddLog)
	a.GET("/practice-items/:id/logs", practiceH.ListLogs)

	a.GET("/tabs", tabH.List)
	a.POST("/tabs", tabH.Create)
	a.GET("/tabs/search", tabH.Search)
	a.GET("/tabs/:id", tabH.Get)
	a.PATCH("/tabs/:id", tabH.Update)
	a.DELETE("/tabs/:id", tabH.Delete)
	a.GET("/tabs/:id/revisions", tabH.Revisions)
	a.GET("/tabs/:id/revisions/:version", tabH.Revision)
	a.POST("/tabs/:id/revisions/:version/restore", tabH.Restore)

	a.GET("/files", fileH.List)
	a.POST("/files/upload-url", fileH.UploadURL)
	a.POST("/files/:id/complete", fileH.Complete)
	a.GET("/files/:id/download-url", fileH.DownloadURL)
	a.DELETE("/files/:id", fileH.Delete)

	a.GET("/workspaces", wsH.List)
	a.POST("/workspaces", wsH.Create)
	a.GET("/workspaces/:id", wsH.Get)
	a.POST("/workspaces/:id/members", wsH.AddMember)
	a.DELETE("/workspaces/:id/members/:userId", wsH.RemoveMember)
	a.GET("/workspaces/:id/notes", noteH.List)
	a.POST("/workspaces/:id/notes", noteH.Create)
	a.GET("/workspaces/:id/notes/search", noteH.Search)
	a.GET("/workspaces/:id/notes/:slug", noteH.Get)
	a.PATCH("/workspaces/:id/notes/:slug", noteH.Update)
	a.DELETE("/workspaces/:id/notes/:slug", noteH.Delete)
	a.GET("/workspaces/:id/notes/:slug/links", noteH.Links)
	a.GET("/workspaces/:id/notes/:slug/backlinks", noteH.Backlinks)
	a.GET("/workspaces/:id/notes/:slug/render", noteH.Render)
	a.GET("/workspaces/:id/notes/:slug/markdown", noteH.Markdown)

	return api
}

// do sends a request with an optional JSON body and bearer token.
func (api *testAPI) do(method, path, token string, body any, cookies ...*http.Cookie) result {
	api.t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(api.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	res := result{Code: w.Code, Header: w.Header(), Body: w.Body.Bytes(), Cookies: w.Result().Cookies()}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(api.t, json.Unmarshal(res.Body, &res.Env), w.Body.String())
	}
	return res
}

type session struct {
	UserID string
	Token  string
}

func (api *testAPI) register(email, name string) session {
	api.t.Helper()
	res := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "correct-horse", "name": name,
	})
	require.Equal(api.t, http.StatusCreated, res.Code, string(res.Body))
	var out struct {
		User        userDTO `json:"user"`
		AccessToken string  `json:"access_token"`
	}
	res.data(api.t, &out)
	return session{UserID: out.User.ID, Token: out.AccessToken}
}

func cookie(res result, name string) *http.Cookie {
	for _, c := range res.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
