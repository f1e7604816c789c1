package routes

import (
	"net/http"
	"time"

	"tradewinds/handlers"
	"tradewinds/middleware"
	"tradewinds/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterInquiryRoutes registers the wizard endpoints.
func RegisterInquiryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/inquiry/session")
	{
		api.POST("", hb.Inquiry.StartSession)

		// Every other route is bound to the session named in the token.
		session := api.Group("/:sessionID")
		session.Use(middleware.SessionTokenMiddleware(handlers.SessionKindInquiry))
		session.GET("", hb.Inquiry.GetSession)
		session.PUT("/advance", hb.Inquiry.Advance)
		session.PUT("/retreat", hb.Inquiry.Retreat)
		session.GET("/matches", hb.Inquiry.Matches)
		session.POST("/submit", hb.Inquiry.Submit)
		session.DELETE("", hb.Inquiry.Abandon)
	}
}

// RegisterCatalogRoutes registers read-only catalog endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/resorts", hb.Catalog.ListResorts)
		api.GET("/options/:kind", hb.Catalog.ListOptions)
	}
}

// RegisterConciergeRoutes registers the concierge chat endpoints.
func RegisterConciergeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/concierge/session")
	{
		api.POST("", hb.Concierge.StartSession)

		session := api.Group("/:sessionID")
		session.Use(middleware.SessionTokenMiddleware(handlers.SessionKindConcierge))
		session.GET("", hb.Concierge.GetSession)
		session.DELETE("", hb.Concierge.End)
		session.POST("/credential", hb.Concierge.SubmitCredential)
		session.DELETE("/credential", hb.Concierge.Disconnect)
		session.POST("/messages", hb.Concierge.Send)
		session.POST("/reset", hb.Concierge.Reset)
		session.POST("/abandon", hb.Concierge.Abandon)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.CheckedAt.IsZero() && !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "Hi, I'm Tradewinds"})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.SessionTokenHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
	RegisterCatalogRoutes(r, hb)
	RegisterInquiryRoutes(r, hb)
	RegisterConciergeRoutes(r, hb)
}
