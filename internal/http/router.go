package http

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/locallibrary/catalog/internal/entities"
	"github.com/locallibrary/catalog/internal/forms"
	"github.com/locallibrary/catalog/internal/middleware"
	"github.com/locallibrary/catalog/web"
)

// templateFuncs are available to every view.
var templateFuncs = template.FuncMap{
	// Stored text is escaped once on input; html/template escapes it again
	// on output, so views unescape first.
	"unescape": forms.Unescape,
	"statusClass": func(status entities.InstanceStatus) string {
		switch status {
		case entities.InstanceStatusAvailable:
			return "status-available"
		case entities.InstanceStatusMaintenance:
			return "status-maintenance"
		default:
			return "status-unavailable"
		}
	},
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// CSRF must run before the session middleware so the session context
	// is layered on top of the request CSRF replaces.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(middleware.CSRF(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadAndSave())
		router.Use(sessionContext(cfg.Sessions))
	}

	router.Use(ErrorResponder(cfg.ShowErrorDetail))

	tmpl := template.Must(web.Templates(templateFuncs, cfg.TemplatesPath))
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	} else {
		router.StaticFS("/static", http.FS(web.Static()))
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	if cfg.AuditCleanup != nil {
		health.WithAuditCleanup(cfg.AuditCleanup)
	}
	router.GET("/health", health.Status)

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		router.GET("/api/audit", auditController.GetAuditEvents)
	}

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog")
	})

	NewUsersController().RegisterRoutes(router.Group("/users"))

	catalog := router.Group("/catalog")
	index := NewIndexController(cfg.Books, cfg.Instances, cfg.Authors, cfg.Genres, cfg.ShowErrorDetail)
	catalog.GET("", index.Home)
	catalog.GET("/", index.Home)
	NewBookController(cfg.Books, cfg.Authors, cfg.Genres, cfg.Instances, cfg.Audit).RegisterRoutes(catalog)
	NewAuthorController(cfg.Authors, cfg.Books, cfg.Audit).RegisterRoutes(catalog)
	NewGenreController(cfg.Genres, cfg.Books, cfg.Audit).RegisterRoutes(catalog)
	NewBookInstanceController(cfg.Instances, cfg.Books, cfg.Audit).RegisterRoutes(catalog)

	router.NoRoute(notFoundHandler)

	return router
}
