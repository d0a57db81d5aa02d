package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deploydeck/deploydeck-backend/pkg/api/dtos"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/services"
)

type WebhookHandler struct {
	WebhookService *services.WebhookService
	Projects       services.ProjectRepository
}

func NewWebhookHandler(webhookService *services.WebhookService, projects services.ProjectRepository) *WebhookHandler {
	return &WebhookHandler{
		WebhookService: webhookService,
		Projects:       projects,
	}
}

func (h *WebhookHandler) ToggleWebhook(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	enabled, err := h.WebhookService.ToggleWebhook(project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled": enabled,
		"urls": gin.H{
			"generic": h.WebhookService.WebhookURL(project, services.WebhookProviderGeneric),
			"gitlab":  h.WebhookService.WebhookURL(project, services.WebhookProviderGitLab),
		},
	})
}

func (h *WebhookHandler) RegenerateSecret(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	if _, err := h.WebhookService.RegenerateSecret(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "OK",
		"urls": gin.H{
			"generic": h.WebhookService.WebhookURL(project, services.WebhookProviderGeneric),
			"gitlab":  h.WebhookService.WebhookURL(project, services.WebhookProviderGitLab),
		},
	})
}

func (h *WebhookHandler) GetDeliveries(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	deliveries, err := h.WebhookService.GetDeliveries(project.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	responses := make([]dtos.DeliveryResponse, len(deliveries))
	for i, delivery := range deliveries {
		responses[i] = dtos.ToDeliveryResponse(delivery)
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": responses})
}

// Receive is the ingress endpoint for provider payloads. The URL embeds the
// project secret; headers carry the event name and, for generic providers,
// an HMAC signature.
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := c.Param("provider")
	secret := c.Param("secret")
	if provider == "" || secret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and secret are required"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	payload := services.InboundPayload{
		Provider: provider,
		Body:     body,
		Branch:   branchFromPayload(body),
	}
	switch provider {
	case services.WebhookProviderGitLab:
		payload.Event = normalizeGitLabEvent(c.GetHeader("X-Gitlab-Event"))
	default:
		payload.Event = c.GetHeader("X-Webhook-Event")
		payload.Signature = c.GetHeader("X-Hub-Signature-256")
	}

	delivery, err := h.WebhookService.HandleInbound(c.Request.Context(), secret, payload)
	if errors.Is(err, services.ErrUnknownWebhookSecret) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown webhook endpoint"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": delivery.Status})
}

func (h *WebhookHandler) loadProject(c *gin.Context) (*entities.ProjectEntity, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return nil, false
	}
	project, err := h.Projects.GetProjectByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return nil, false
	}
	return project, true
}

// branchFromPayload pulls the short branch name out of a push payload's ref
// field, e.g. refs/heads/main -> main.
func branchFromPayload(body []byte) string {
	var payload struct {
		Ref string `json:"ref"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimPrefix(payload.Ref, "refs/heads/")
}

// normalizeGitLabEvent maps GitLab's event header values onto the generic
// event names ("Push Hook" -> "push").
func normalizeGitLabEvent(header string) string {
	switch header {
	case "Push Hook":
		return "push"
	case "":
		return ""
	default:
		return strings.ToLower(strings.TrimSuffix(header, " Hook"))
	}
}
