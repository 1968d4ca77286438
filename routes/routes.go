package routes

import (
	"foodbridge-api/handlers"
	"foodbridge-api/middleware"
	"foodbridge-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, api *handlers.API) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", api.Register)
		public.POST("/auth/login", api.Login)

		// State machine info (great for docs/Postman)
		public.GET("/lifecycle", api.GetLifecycleInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", api.GetProfile)
		auth.POST("/profile/role", api.SelectRole)
	}

	// ── Restaurant routes ──────────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleRestaurant))
	{
		restaurant.POST("/requests", api.CreateRequest)
		restaurant.GET("/requests", api.GetMyRequests)
		restaurant.GET("/requests/stream", api.StreamMyRequests)
		restaurant.PUT("/requests/:id/complete", api.CompleteRequest)
	}

	// ── NGO routes ─────────────────────────────────────────────────
	ngo := r.Group("/api/ngo")
	ngo.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleNGO))
	{
		ngo.GET("/requests/pending", api.GetPendingRequests)
		ngo.GET("/requests/pending/stream", api.StreamPendingRequests)
		ngo.GET("/requests/accepted", api.GetMyAcceptedRequests)
		ngo.GET("/requests/accepted/stream", api.StreamMyAcceptedRequests)
		ngo.PUT("/requests/:id/accept", api.AcceptRequest)
		ngo.PUT("/requests/:id/complete", api.CompleteRequest)
	}
}
