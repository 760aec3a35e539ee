package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/metrics"
	"puzzlearchive/internal/server/config"
	"puzzlearchive/internal/server/services"
)

// NewRouter assembles the catalogd route table.
func NewRouter(
	cfg *config.Config,
	logger logging.Logger,
	userService *services.UserService,
	catalogService *services.CatalogService,
	attemptService *services.AttemptService,
	grantService *services.GrantService,
	contentService *services.ContentService,
	recorder metrics.HTTPRecorder,
) *gin.Engine {

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(Metrics(recorder))

	userHandler := NewUserHandler(userService, logger)
	catalogHandler := NewCatalogHandler(catalogService, logger)
	attemptHandler := NewAttemptHandler(attemptService, logger)
	grantHandler := NewGrantHandler(grantService, logger)
	contentHandler := NewContentHandler(contentService, logger)

	api := router.Group("/api")
	{
		// public: registration, login, refresh and the catalog snapshot.
		// Catalog metadata is globally readable so locked placeholders can
		// always be rendered.
		api.POST("/register", userHandler.Register)
		api.POST("/login", userHandler.Login)
		api.POST("/token/refresh", userHandler.Refresh)
		api.GET("/catalog", catalogHandler.Snapshot)

		authed := api.Group("")
		authed.Use(Auth([]byte(cfg.SecretKey)))
		{
			authed.GET("/me", userHandler.Me)
			authed.GET("/grants", grantHandler.List)
			authed.POST("/grants", grantHandler.Record)
			authed.POST("/attempts", attemptHandler.Push)
			authed.GET("/content/:id", contentHandler.URL)
		}

		admin := api.Group("/admin")
		admin.Use(AdminAuth(cfg.AdminAPIKey))
		{
			admin.POST("/catalog", catalogHandler.AdminUpsert)
			admin.DELETE("/catalog/:id", catalogHandler.AdminDelete)
			admin.PUT("/users/:username/premium", userHandler.AdminSetPremium)
		}
	}

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}
