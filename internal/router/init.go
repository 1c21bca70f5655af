package router

import (
	"github.com/fretvault/api/internal/application"
	"github.com/fretvault/api/internal/container"
	pginfra "github.com/fretvault/api/internal/infrastructure/postgres"
	handlers "github.com/fretvault/api/internal/interface/http"
	"github.com/fretvault/api/internal/router/modules"
)

// optional dependencies go through these so an unset pointer stays a nil interface

func objectStore() application.ObjectStore {
	if s := container.GetObjectStore(); s != nil {
		return s
	}
	return nil
}

func searchIndex() application.SearchIndex {
	if x := container.GetES(); x != nil {
		return x
	}
	return nil
}

func jobPublisher() application.JobPublisher {
	if p := container.GetRabbitPub(); p != nil {
		return p
	}
	return nil
}

type services struct {
	Auth       *application.AuthService
	Practice   *application.PracticeService
	Tabs       *application.TabService
	Storage    *application.StorageService
	Workspaces *application.WorkspaceService
	Notes      *application.NoteService
}

func buildServices() services {
	pool := container.GetPGPool()
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(pool)
	workspaces := pginfra.NewWorkspaceRepository(pool)
	plans := pginfra.NewPracticePlanRepository(pool)
	items := pginfra.NewPracticeItemRepository(pool)
	tabs := pginfra.NewTabRepository(pool)
	notes := pginfra.NewNoteRepository(pool)
	files := pginfra.NewFileRepository(pool)

	return services{
		Auth:       application.NewAuthService(users, workspaces, container.GetJWT(), container.GetRedis(), jobPublisher(), cfg, logger),
		Practice:   application.NewPracticeService(plans, items, tabs, logger),
		Tabs:       application.NewTabService(tabs, searchIndex(), cfg.ESTabsIndex, logger),
		Storage:    application.NewStorageService(files, objectStore(), cfg.StoragePresignTTL, cfg.StorageMaxUploadBytes, logger),
		Workspaces: application.NewWorkspaceService(workspaces, users, jobPublisher(), cfg, logger),
		Notes:      application.NewNoteService(notes, workspaces, searchIndex(), cfg.ESNotesIndex, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svc := buildServices()

	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(container.GetPGPool(), container.GetRedis())))

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewPracticeModule(handlers.NewPracticeHandler(svc.Practice, logger), jwt))
	r.Add(modules.NewTabModule(handlers.NewTabHandler(svc.Tabs, logger), jwt))
	r.Add(modules.NewFileModule(handlers.NewFileHandler(svc.Storage, logger), jwt))
	r.Add(modules.NewWorkspaceModule(
		handlers.NewWorkspaceHandler(svc.Workspaces, logger),
		handlers.NewNoteHandler(svc.Notes, logger),
		jwt,
	))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
