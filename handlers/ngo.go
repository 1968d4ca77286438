package handlers

import (
	"net/http"

	"foodbridge-api/config"
	"foodbridge-api/middleware"
	"foodbridge-api/models"

	"github.com/gin-gonic/gin"
)

// GetPendingRequests returns the global acceptance queue: every request
// still waiting for an NGO, newest first.
func (a *API) GetPendingRequests(c *gin.Context) {
	reqs, err := a.Engine.ListPending()
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reqs), "requests": reqs})
}

// GetMyAcceptedRequests returns requests this NGO has accepted,
// including already-collected ones.
func (a *API) GetMyAcceptedRequests(c *gin.Context) {
	ngoID := middleware.GetUserID(c)
	reqs, err := a.Engine.ListAcceptedBy(ngoID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reqs), "requests": reqs})
}

// AcceptRequest claims a pending request for the logged-in NGO. Losing
// the race to another NGO comes back as a 409, not a silent overwrite.
func (a *API) AcceptRequest(c *gin.Context) {
	ngoID := middleware.GetUserID(c)
	requestID := c.Param("id")

	var ngo models.User
	if err := config.DB.First(&ngo, ngoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	accepted, err := a.Engine.Accept(requestID, ngoID, ngo.Name)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request accepted, thank you!",
		"request": accepted,
	})
}

// CompleteRequest marks a request as collected. Mounted under both the
// restaurant and NGO groups; the engine checks the caller is actually a
// participant, so a third party gets an explicit denial either way.
func (a *API) CompleteRequest(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	requestID := c.Param("id")

	completed, err := a.Engine.Complete(requestID, actorID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request marked as completed",
		"request": completed,
	})
}
