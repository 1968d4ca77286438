package handlers

import (
	"net/http"

	"foodbridge-api/config"
	"foodbridge-api/middleware"
	"foodbridge-api/models"

	"github.com/gin-gonic/gin"
)

type CreateRequestRequest struct {
	FoodDescription string `json:"food_description" binding:"required"`
	Quantity        string `json:"quantity" binding:"required"`
	Location        string `json:"location" binding:"required"`
}

// CreateRequest posts a new donation offer (restaurant only)
func (a *API) CreateRequest(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The restaurant name on the request is a snapshot of the profile
	// name at this moment.
	var owner models.User
	if err := config.DB.First(&owner, ownerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	created, err := a.Engine.Create(ownerID, owner.Name, req.FoodDescription, req.Quantity, req.Location)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Food request posted",
		"request": created,
	})
}

// GetMyRequests returns all requests posted by the logged-in restaurant
func (a *API) GetMyRequests(c *gin.Context) {
	ownerID := middleware.GetUserID(c)

	reqs, err := a.Engine.ListByOwner(ownerID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	// Group counts by status for the dashboard header
	summary := map[string]int{}
	for _, r := range reqs {
		summary[string(r.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"request_summary": summary,
		"count":           len(reqs),
		"requests":        reqs,
	})
}
