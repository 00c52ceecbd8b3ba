package routes

import (
	"github.com/gin-gonic/gin"

	"orderease/handlers"
	"orderease/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Role switch (no credentials)
		public.POST("/role", h.ChooseRole)

		public.GET("/menu", h.GetMenu)
		public.GET("/menu/available", h.GetAvailableMenu)

		// Table lifecycle, for docs/Postman
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Guest routes ───────────────────────────────────────────────
	guest := r.Group("/api/guest")
	guest.Use(h.Tokens.RoleRequired(models.RoleGuest))
	{
		guest.GET("/order", h.GetMyOrder)
		guest.POST("/order/items", h.AddOrderItem)
		guest.DELETE("/order/items/:itemId", h.RemoveOrderItem)
		guest.POST("/call", h.CallServer)
		guest.POST("/check", h.RequestCheck)
	}

	// ── Server routes ──────────────────────────────────────────────
	server := r.Group("/api/server")
	server.Use(h.Tokens.RoleRequired(models.RoleServer))
	{
		server.GET("/tables", h.GetMyTables)
		server.POST("/tables/:number/seat", h.SeatTable)
		server.POST("/tables/:number/check-in", h.CheckIn)
		server.POST("/tables/:number/served", h.MarkServed)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(h.Tokens.RoleRequired(models.RoleAdmin))
	{
		// Menu management
		admin.POST("/menu", h.AddMenuItem)
		admin.DELETE("/menu/:itemId", h.DeleteMenuItem)
		admin.PUT("/menu/:itemId/availability", h.SetMenuItemAvailability)

		// Staff and tables
		admin.POST("/servers", h.AddServer)
		admin.GET("/servers", h.ListServers)
		admin.POST("/tables", h.AddTable)
		admin.GET("/tables", h.ListTables)
		admin.PUT("/tables/:number/server", h.AssignServer)

		admin.GET("/popular", h.GetPopularItems)
		admin.POST("/save", h.SaveState)
		admin.POST("/load", h.LoadState)
	}
}
