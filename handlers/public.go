package handlers

import (
	"net/http"

	"food-ordering-api/models"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Food Ordering Platform API",
		"version": "1.0.0",
	})
}

func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Food Ordering Platform API",
		"docs":    "/api/state-machine",
		"health":  "/health",
		"roles":   models.Roles,
	})
}

// GetStateMachineInfo returns both order lifecycles for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine": statemachine.Describe(),
		"description":   "Order lifecycles. Any allowed status may be set directly unless strict transitions are enabled.",
	})
}
