package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deploydeck/deploydeck-backend/pkg/api/dtos"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/services"
)

type DeploymentHandler struct {
	DeploymentService *services.DeploymentService
}

func NewDeploymentHandler(deploymentService *services.DeploymentService) *DeploymentHandler {
	return &DeploymentHandler{DeploymentService: deploymentService}
}

func (h *DeploymentHandler) DeployAll(c *gin.Context) {
	var request dtos.DeployRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DeploymentService.DeployAll(c.Request.Context(), request.UserID)
	if errors.Is(err, services.ErrNoEligibleProjects) {
		c.JSON(http.StatusOK, gin.H{"message": "no eligible projects", "count": 0})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK", "count": result.Count, "projectIds": result.ProjectIDs})
}

func (h *DeploymentHandler) Deploy(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	var request dtos.DeployRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.DeploymentService.Deploy(c.Request.Context(), id, request.UserID, entities.TriggerSourceManual)
	if errors.Is(err, services.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK", "deploymentId": record.ID})
}

func (h *DeploymentHandler) GetDeployments(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	deployments, err := h.DeploymentService.GetDeployments(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deployments": deployments})
}
