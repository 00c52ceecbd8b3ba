package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderease/middleware"
	"orderease/models"
)

// GetMyTables lists the tables assigned to the calling server
func (h *Handler) GetMyTables(c *gin.Context) {
	claims := middleware.GetClaims(c)
	tables, err := h.Svc.ServerTables(claims.ServerName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}

// SeatTable records a new seating (EMPTY or SERVED → SEATED)
func (h *Handler) SeatTable(c *gin.Context) {
	number, ok := tableParam(c)
	if !ok {
		return
	}
	table, err := h.Svc.SeatGuests(number, models.RoleServer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Guests seated", "table": table})
}

// CheckIn lets the server check in with one of their tables
func (h *Handler) CheckIn(c *gin.Context) {
	claims := middleware.GetClaims(c)
	number, ok := tableParam(c)
	if !ok {
		return
	}
	table, err := h.Svc.CheckIn(number, claims.ServerName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checked in with table", "table": table})
}

// MarkServed clears the table's order (SEATED → SERVED)
func (h *Handler) MarkServed(c *gin.Context) {
	claims := middleware.GetClaims(c)
	number, ok := tableParam(c)
	if !ok {
		return
	}
	table, err := h.Svc.MarkServed(number, claims.ServerName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order has been marked as served", "table": table})
}
