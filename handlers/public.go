package handlers

import (
	"net/http"

	"foodbridge-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetLifecycleInfo returns the request state machine for informational purposes
func (a *API) GetLifecycleInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{"completed"},
		"description":     "Food Request Lifecycle State Machine",
	})
}
