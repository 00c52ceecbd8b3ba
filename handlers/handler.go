package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orderease/middleware"
	"orderease/models"
	"orderease/service"
	"orderease/statemachine"
	"orderease/store"
)

// Handler serves the HTTP API on top of a service.Restaurant.
type Handler struct {
	Svc    *service.Restaurant
	Tokens *middleware.RoleTokens
}

func New(svc *service.Restaurant, tokens *middleware.RoleTokens) *Handler {
	return &Handler{Svc: svc, Tokens: tokens}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, service.ErrNotAssigned),
		errors.Is(err, store.ErrNoSnapshot):
		return http.StatusNotFound
	case errors.Is(err, statemachine.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDuplicateTable),
		errors.Is(err, service.ErrServerUnavailable),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrNoServer):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var te *statemachine.TransitionError
	if errors.As(err, &te) {
		body["current_status"] = te.From
		body["valid_next_states"] = statemachine.ValidTransitionsFrom(te.From)
	}
	c.JSON(errorStatus(err), body)
}

// tableParam parses the :number path parameter as a positive table number.
func tableParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Table number must be a positive integer"})
		return 0, false
	}
	return n, true
}

func itemParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item id"})
		return uuid.Nil, false
	}
	return id, true
}
