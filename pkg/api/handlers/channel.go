package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/api/dtos"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/services"
)

type ChannelHandler struct {
	NotificationService *services.NotificationService
	Channels            services.ChannelRepository
}

func NewChannelHandler(notificationService *services.NotificationService, channels services.ChannelRepository) *ChannelHandler {
	return &ChannelHandler{
		NotificationService: notificationService,
		Channels:            channels,
	}
}

func (h *ChannelHandler) GetChannels(c *gin.Context) {
	channels, err := h.Channels.GetChannels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var request dtos.ChannelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := request.ToEntity(uuid.New())
	if err := h.Channels.CreateChannel(channel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK", "channel": channel})
}

func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	channel, ok := h.loadChannel(c)
	if !ok {
		return
	}
	var request dtos.ChannelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := request.ToEntity(channel.ID)
	if err := h.Channels.UpdateChannel(updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK", "channel": updated})
}

func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	channel, ok := h.loadChannel(c)
	if !ok {
		return
	}
	if err := h.Channels.DeleteChannel(channel.ID.String()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

func (h *ChannelHandler) TestChannel(c *gin.Context) {
	channel, ok := h.loadChannel(c)
	if !ok {
		return
	}
	success, message := h.NotificationService.TestChannel(c.Request.Context(), channel)
	c.JSON(http.StatusOK, gin.H{"success": success, "error": message})
}

func (h *ChannelHandler) ToggleChannel(c *gin.Context) {
	channel, ok := h.loadChannel(c)
	if !ok {
		return
	}
	if err := h.NotificationService.ToggleChannel(channel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK", "enabled": channel.Enabled})
}

func (h *ChannelHandler) loadChannel(c *gin.Context) (*entities.NotificationChannel, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return nil, false
	}
	channel, err := h.Channels.GetChannelByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if channel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return nil, false
	}
	return channel, true
}
