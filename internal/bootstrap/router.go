package bootstrap

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iwen-conf/DormDB/internal/handlers"
	"github.com/iwen-conf/DormDB/internal/middleware"
)

func (a *App) buildRouter() *gin.Engine {
	if !a.cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	applyHandler := handlers.NewApplyHandler(a.provision, a.store)
	adminHandler := handlers.NewAdminHandler(a.admin, a.reconcile, a.auth)
	allowlistHandler := handlers.NewAllowlistHandler(a.allowlist)

	if a.cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	{
		api.POST("/apply", applyHandler.Apply)
		api.GET("/public/records", applyHandler.PublicRecords)
		api.GET("/health", applyHandler.Health)
		api.POST("/admin/login", adminHandler.Login)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(a.auth))
	{
		admin.GET("/status", adminHandler.Status)
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/records", adminHandler.Records)
		admin.GET("/records/active", adminHandler.ActiveRecords)
		admin.POST("/delete", adminHandler.DeleteGrant)
		admin.POST("/reconcile", adminHandler.Reconcile)

		admin.GET("/users", allowlistHandler.List)
		admin.POST("/users", allowlistHandler.Add)
		admin.PUT("/users/:id", allowlistHandler.Update)
		admin.DELETE("/users/:id", allowlistHandler.Delete)
		admin.POST("/users/import", allowlistHandler.Import)
		admin.GET("/users/stats", allowlistHandler.Stats)
	}

	return r
}
