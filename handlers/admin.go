package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Menu Management ─────────────────────────────────────────────────────────

type CreateMenuItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Available   *bool            `json:"available" binding:"required"`
}

// AddMenuItem adds a new item to the menu
func (h *Handler) AddMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}
	item := h.Svc.AddMenuItem(req.Name, req.Description, *req.Price, *req.Available)
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// DeleteMenuItem removes a menu item
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := itemParam(c)
	if !ok {
		return
	}
	if err := h.Svc.RemoveMenuItem(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetMenuItemAvailability toggles whether guests can order an item
func (h *Handler) SetMenuItemAvailability(c *gin.Context) {
	id, ok := itemParam(c)
	if !ok {
		return
	}
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.Svc.SetMenuItemAvailable(id, *req.Available)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// ── Staff and Tables ────────────────────────────────────────────────────────

type CreateServerRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) AddServer(c *gin.Context) {
	var req CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	server := h.Svc.AddServer(req.Name)
	c.JSON(http.StatusCreated, gin.H{"message": "Server added", "server": server})
}

func (h *Handler) ListServers(c *gin.Context) {
	servers := h.Svc.Servers()
	c.JSON(http.StatusOK, gin.H{"count": len(servers), "servers": servers})
}

type CreateTableRequest struct {
	TableNumber int `json:"table_number" binding:"required,min=1"`
}

func (h *Handler) AddTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := h.Svc.AddTable(req.TableNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Table added", "table": table})
}

func (h *Handler) ListTables(c *gin.Context) {
	tables := h.Svc.Tables()
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}

type AssignServerRequest struct {
	ServerName string `json:"server_name" binding:"required"`
}

// AssignServer puts an available server on a table, freeing the previous one
func (h *Handler) AssignServer(c *gin.Context) {
	number, ok := tableParam(c)
	if !ok {
		return
	}
	var req AssignServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := h.Svc.AssignServer(number, req.ServerName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Server assigned to table", "table": table})
}

// ── Analytics and Persistence ───────────────────────────────────────────────

// GetPopularItems ranks items across all currently open orders
func (h *Handler) GetPopularItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"popular_items": h.Svc.PopularItems(),
		"counts":        h.Svc.ItemPopularity(),
	})
}

func (h *Handler) SaveState(c *gin.Context) {
	if err := h.Svc.Save(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant state saved"})
}

// LoadState replaces the in-memory state with the stored one. On failure the
// current state is kept.
func (h *Handler) LoadState(c *gin.Context) {
	if err := h.Svc.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant state loaded"})
}
