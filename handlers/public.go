package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderease/models"
	"orderease/statemachine"
)

// GetMenu returns every menu item with its availability (public)
func (h *Handler) GetMenu(c *gin.Context) {
	items := h.Svc.Menu()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetAvailableMenu returns only the items guests can order (public)
func (h *Handler) GetAvailableMenu(c *gin.Context) {
	items := h.Svc.AvailableMenu()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetStateMachineInfo returns the table lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine": statemachine.GetAllTransitions(),
		"description":   "Table seating lifecycle. Seating time is never cleared; serving only clears the order.",
	})
}

type ChooseRoleRequest struct {
	Role        models.Role `json:"role" binding:"required,oneof=guest server admin"`
	ServerName  string      `json:"server_name"`
	TableNumber int         `json:"table_number" binding:"omitempty,min=1"`
}

// ChooseRole switches the caller to a role and returns a token for it.
// There are no credentials: role switching is open to anyone.
func (h *Handler) ChooseRole(c *gin.Context) {
	var req ChooseRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"role": req.Role}
	switch req.Role {
	case models.RoleGuest:
		if req.TableNumber == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table_number is required for guests"})
			return
		}
		table, err := h.Svc.SitDown(req.TableNumber)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["table"] = table
		req.ServerName = ""
	case models.RoleServer:
		if req.ServerName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "server_name is required for servers"})
			return
		}
		tables, err := h.Svc.ServerTables(req.ServerName)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["tables"] = tables
		req.TableNumber = 0
	default:
		req.ServerName, req.TableNumber = "", 0
	}

	token, err := h.Tokens.GenerateToken(req.Role, req.ServerName, req.TableNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	resp["token"] = token
	c.JSON(http.StatusOK, resp)
}
