package handlers

import (
	"net/http"

	"github.com/SscSPs/school_fees_ledger/cmd/docs"
	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/school_fees_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/SscSPs/school_fees_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// v1Middleware runs after authentication on every /api/v1 route (rate limit, analytics).
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	tracker gateways.EventTracker,
	v1Middleware ...gin.HandlerFunc,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, tracker, v1Middleware...)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	tracker gateways.EventTracker,
	v1Middleware ...gin.HandlerFunc,
) {
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)}, v1Middleware...)
	if tracker != nil {
		chain = append(chain, middleware.AnalyticsMiddleware(tracker))
	}
	v1 := r.Group("/api/v1", chain...)

	RegisterInvoiceRoutes(v1, service.Invoice, service.Payment)
	RegisterPaymentRoutes(v1, service.Payment)
	RegisterBalanceRoutes(v1, service.Balance)
	RegisterReminderRoutes(v1, service.Reminder)
	RegisterCatalogRoutes(v1, service.Catalog)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
