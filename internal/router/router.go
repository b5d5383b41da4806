package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/visitor-registration-backend/config"
	"github.com/ikkim/visitor-registration-backend/internal/app/controller"
	apperrors "github.com/ikkim/visitor-registration-backend/internal/errors"
	"github.com/ikkim/visitor-registration-backend/internal/middleware"
)

type Router struct {
	visitorController *controller.VisitorController
	config            *config.Config
}

func NewRouter(
	visitorController *controller.VisitorController,
	cfg *config.Config,
) *Router {
	return &Router{
		visitorController: visitorController,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(recoverWithEnvelope))
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins, "/api/"))

	router.NoRoute(func(c *gin.Context) {
		apperrors.NotFound(c, "")
	})
	router.NoMethod(func(c *gin.Context) {
		apperrors.MethodNotAllowed(c)
	})

	router.GET("/health", r.visitorController.Health)

	api := router.Group("/api")
	{
		visitors := api.Group("/visitors")
		{
			visitors.POST("", r.visitorController.RegisterVisitor)
		}
	}

	return router
}

func recoverWithEnvelope(c *gin.Context, recovered interface{}) {
	middleware.GetLoggerFromContext(c).Error("Recovered from panic", nil, map[string]interface{}{
		"panic": recovered,
	})
	apperrors.InternalError(c, "")
}
