package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/softdepot/backend/internal/config"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/core/services"
	"github.com/softdepot/backend/internal/infrastructure/db"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"github.com/softdepot/backend/internal/transport/http/handlers"
	httpmw "github.com/softdepot/backend/internal/transport/http/middleware"
	"github.com/softdepot/backend/internal/transport/http/ws"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB       *gorm.DB
	Resolver ports.HostnameResolver
	Logger   *logger.Logger
	Config   *config.Config
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	// Repositories
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	softwareRepo := db.NewSoftwareRepository(cfg.DB, cfg.Logger)
	downloadRepo := db.NewDownloadRepository(cfg.DB, cfg.Logger)

	// Services
	taskService := services.NewTaskService(services.TaskServiceConfig{
		TaskRepo:     taskRepo,
		SoftwareRepo: softwareRepo,
		Logger:       cfg.Logger,
	})
	hostnameService := services.NewHostnameService(services.HostnameServiceConfig{
		Resolver: cfg.Resolver,
		Logger:   cfg.Logger,
		TTL:      cfg.Config.Session.TTL,
	})
	installService := services.NewInstallService(services.InstallServiceConfig{
		SoftwareRepo: softwareRepo,
		DownloadRepo: downloadRepo,
		Tasks:        taskService,
		Hostnames:    hostnameService,
		Storage:      cfg.Config.Storage,
		Logger:       cfg.Logger,
	})
	softwareService := services.NewSoftwareService(services.SoftwareServiceConfig{
		SoftwareRepo: softwareRepo,
		Logger:       cfg.Logger,
	})

	hub := ws.NewHub(cfg.Logger)

	// Handlers
	taskHandler := handlers.NewTaskHandler(taskService, hub, cfg.Logger)
	installHandler := handlers.NewInstallHandler(installService, hostnameService, hub, cfg.Logger)
	softwareHandler := handlers.NewSoftwareHandler(softwareService, cfg.Logger)

	// Agent dispatch API. Path shapes are the agent's wire contract; the
	// deployed fleet depends on them staying put.
	tasks := app.Group("/api/tasks", httpmw.AgentAuth(cfg.Config))
	tasks.Get("/", taskHandler.GetTasksForHost)
	tasks.Post("/create/", taskHandler.CreateTask)
	tasks.Patch("/:id/", taskHandler.UpdateTask)

	// Portal API (behind the SSO proxy)
	api := app.Group("/api/v1")

	software := api.Group("/software")
	software.Get("/stats", httpmw.AdminAuth(cfg.Config), softwareHandler.GetStats)
	software.Post("/", httpmw.AdminAuth(cfg.Config), softwareHandler.CreateSoftware)
	software.Get("/", httpmw.Identity(cfg.Config), softwareHandler.GetSoftwares)
	software.Get("/:slug/", httpmw.Identity(cfg.Config), softwareHandler.GetSoftware)
	software.Post("/:slug/install/", httpmw.Identity(cfg.Config), installHandler.TriggerInstall)

	session := api.Group("/session", httpmw.Identity(cfg.Config))
	session.Get("/hostname", installHandler.GetSessionHostname)
	session.Post("/logout", installHandler.Logout)

	// Task event stream for the admin dashboard
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/events", websocket.New(hub.Handle))
}
