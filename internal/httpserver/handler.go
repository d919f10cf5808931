package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv *HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	if srv.vapiHandler == nil {
		srv.l.Warn(ctx, "Voice tool handler not configured, skipping scheduling routes")
		return nil
	}

	tools := srv.gin.Group("/api/tool")
	tools.POST("/schedule-event", srv.vapiHandler.HandleScheduleEvent)
	tools.POST("/check-availability", srv.vapiHandler.HandleCheckAvailability)
	tools.POST("/available-slots", srv.vapiHandler.HandleAvailableSlots)

	srv.gin.POST("/webhook/vapi", srv.vapiHandler.HandleServerMessage)
	srv.gin.GET("/api/bookings", srv.vapiHandler.HandleListBookings)
	srv.gin.POST("/api/direct/schedule", srv.vapiHandler.HandleDirectSchedule)

	srv.l.Infof(ctx, "Scheduling routes registered under /api/tool")
	return nil
}
