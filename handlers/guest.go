package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orderease/middleware"
)

type AddOrderItemRequest struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
}

// GetMyOrder returns the current order of the guest's table
func (h *Handler) GetMyOrder(c *gin.Context) {
	claims := middleware.GetClaims(c)
	order, err := h.Svc.CurrentOrder(claims.TableNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AddOrderItem adds a menu item to the guest's order and notifies the server
func (h *Handler) AddOrderItem(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var req AddOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Svc.PlaceOrder(c.Request.Context(), claims.TableNumber, uuid.MustParse(req.ItemID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to order. Server will be notified.",
		"order":   order,
	})
}

// RemoveOrderItem removes one occurrence of an item; absent items are ignored
func (h *Handler) RemoveOrderItem(c *gin.Context) {
	claims := middleware.GetClaims(c)
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	order, err := h.Svc.RemoveFromOrder(claims.TableNumber, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CallServer asks the assigned server to come to the table
func (h *Handler) CallServer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	name, err := h.Svc.CallServer(c.Request.Context(), claims.TableNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Server " + name + " has been notified."})
}

// RequestCheck asks for the check and returns the amount due
func (h *Handler) RequestCheck(c *gin.Context) {
	claims := middleware.GetClaims(c)
	order, err := h.Svc.RequestCheck(c.Request.Context(), claims.TableNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Your check has been requested. A server will be with you shortly.",
		"order":   order,
	})
}
