package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deploydeck/deploydeck-backend/internal/logger"
	"github.com/deploydeck/deploydeck-backend/internal/utils"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// Webhook URL providers. Each provider gets its own ingress path shape.
const (
	WebhookProviderGeneric = "generic"
	WebhookProviderGitLab  = "gitlab"
)

// ErrUnknownWebhookSecret is returned when no project matches an inbound
// secret. Nothing is recorded in that case; there is no project to attach
// the delivery to.
var ErrUnknownWebhookSecret = errors.New("no project matches webhook secret")

type DeliveryRepository interface {
	CreateDelivery(delivery *entities.WebhookDelivery) error
	GetDeliveriesByProjectID(projectID string) ([]*entities.WebhookDelivery, error)
}

// Deployer is the dispatcher capability the ingress path needs.
type Deployer interface {
	Deploy(ctx context.Context, projectID string, userID uuid.UUID, triggeredBy entities.TriggerSource) (*entities.DeploymentRecord, error)
}

// InboundPayload is the provider-agnostic digest of an inbound webhook
// request, extracted by the handler before the service sees it.
type InboundPayload struct {
	Provider  string
	Event     string
	Branch    string
	Body      []byte
	Signature string
}

type WebhookService struct {
	projects   ProjectRepository
	deliveries DeliveryRepository
	deployer   Deployer
	baseURL    string
}

func NewWebhookService(
	projects ProjectRepository,
	deliveries DeliveryRepository,
	deployer Deployer,
	baseURL string,
) *WebhookService {
	return &WebhookService{
		projects:   projects,
		deliveries: deliveries,
		deployer:   deployer,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ToggleWebhook flips the webhook flag. Enabling for the first time
// generates the secret; disabling keeps it, so re-enabling does not silently
// rotate URLs.
func (s *WebhookService) ToggleWebhook(project *entities.ProjectEntity) (bool, error) {
	project.WebhookEnabled = !project.WebhookEnabled
	if project.WebhookEnabled && project.WebhookSecret == "" {
		project.WebhookSecret = utils.GenerateWebhookSecret()
	}
	if err := s.projects.UpdateWebhook(project.ID.String(), project.WebhookEnabled, project.WebhookSecret); err != nil {
		return project.WebhookEnabled, err
	}
	return project.WebhookEnabled, nil
}

// RegenerateSecret issues a fresh secret distinct from the prior one. URLs
// embed the secret, so regeneration implicitly revokes every previously
// issued URL.
func (s *WebhookService) RegenerateSecret(project *entities.ProjectEntity) (string, error) {
	old := project.WebhookSecret
	secret := utils.GenerateWebhookSecret()
	for secret == old {
		secret = utils.GenerateWebhookSecret()
	}
	if err := s.projects.UpdateWebhook(project.ID.String(), project.WebhookEnabled, secret); err != nil {
		return "", err
	}
	project.WebhookSecret = secret
	return secret, nil
}

// WebhookURL builds the ingress URL for a provider, with the project secret
// embedded as a path component. Unknown providers fall back to the generic
// shape.
func (s *WebhookService) WebhookURL(project *entities.ProjectEntity, provider string) string {
	if project.WebhookSecret == "" {
		return ""
	}
	switch provider {
	case WebhookProviderGitLab:
		return fmt.Sprintf("%s/api/v1/webhooks/gitlab/%s", s.baseURL, project.WebhookSecret)
	default:
		return fmt.Sprintf("%s/api/v1/webhooks/generic/%s", s.baseURL, project.WebhookSecret)
	}
}

func (s *WebhookService) GetDeliveries(projectID string) ([]*entities.WebhookDelivery, error) {
	return s.deliveries.GetDeliveriesByProjectID(projectID)
}

// HandleInbound processes one inbound provider payload against the project
// matched by the URL secret. Signature mismatch records a failed delivery;
// a valid payload filtered out by event or branch records an ignored one.
// Only matching push payloads trigger a deployment. The delivery row is the
// immutable audit record either way.
func (s *WebhookService) HandleInbound(ctx context.Context, secret string, payload InboundPayload) (*entities.WebhookDelivery, error) {
	project, err := s.projects.GetProjectByWebhookSecret(secret)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrUnknownWebhookSecret
	}

	delivery := &entities.WebhookDelivery{
		ID:            uuid.New(),
		ProjectID:     project.ID,
		Provider:      payload.Provider,
		Event:         payload.Event,
		Branch:        payload.Branch,
		PayloadDigest: utils.PayloadDigest(payload.Body),
		ReceivedAt:    time.Now().UTC(),
	}

	switch {
	case !project.WebhookEnabled:
		delivery.Status = entities.DeliveryStatusFailed
		delivery.Reason = "webhook disabled for project"
	case payload.Signature != "" && !validSignature(payload.Body, project.WebhookSecret, payload.Signature):
		delivery.Status = entities.DeliveryStatusFailed
		delivery.Reason = "signature mismatch"
	case payload.Event != "" && payload.Event != "push":
		delivery.Status = entities.DeliveryStatusIgnored
		delivery.Reason = fmt.Sprintf("event %q does not trigger deploys", payload.Event)
	case payload.Branch != "" && payload.Branch != project.DeployBranch():
		delivery.Status = entities.DeliveryStatusIgnored
		delivery.Reason = fmt.Sprintf("branch %q does not match %q", payload.Branch, project.DeployBranch())
	default:
		if _, err := s.deployer.Deploy(ctx, project.ID.String(), uuid.Nil, entities.TriggerSourceWebhook); err != nil {
			delivery.Status = entities.DeliveryStatusFailed
			delivery.Reason = err.Error()
		} else {
			delivery.Status = entities.DeliveryStatusSuccess
		}
	}

	if err := s.deliveries.CreateDelivery(delivery); err != nil {
		logger.Error("failed to record webhook delivery",
			zap.String("projectId", project.ID.String()),
			zap.Error(err))
		return delivery, err
	}
	return delivery, nil
}

// validSignature checks the hex HMAC-SHA256 of the body against the
// provided signature, tolerating a sha256= prefix.
func validSignature(body []byte, secret, provided string) bool {
	provided = strings.TrimPrefix(provided, "sha256=")
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(provided), []byte(expected))
}
