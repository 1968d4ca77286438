package handlers

import (
	"errors"
	"net/http"

	"foodbridge-api/lifecycle"
	"foodbridge-api/live"

	"github.com/gin-gonic/gin"
)

// API bundles the lifecycle engine and live hub so handlers receive
// their collaborators explicitly instead of reaching for globals.
type API struct {
	Engine *lifecycle.Engine
	Hub    *live.Hub
}

func New(engine *lifecycle.Engine, hub *live.Hub) *API {
	return &API{Engine: engine, Hub: hub}
}

// respondLifecycleError maps engine sentinel errors onto HTTP statuses.
// Anything unrecognized is a store-level failure: opaque 500, safe to
// re-trigger because the engine left the data unchanged.
func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	case errors.Is(err, lifecycle.ErrAlreadyAccepted):
		c.JSON(http.StatusConflict, gin.H{"error": "This request has already been accepted by another NGO"})
	case errors.Is(err, lifecycle.ErrNotAccepted):
		c.JSON(http.StatusConflict, gin.H{"error": "This request has not been accepted yet"})
	case errors.Is(err, lifecycle.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owning restaurant or the accepting NGO may complete this request"})
	case errors.Is(err, lifecycle.ErrNameRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Complete your profile (display name) before acting on requests"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed, please try again"})
	}
}
