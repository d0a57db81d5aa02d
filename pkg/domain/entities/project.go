package entities

import (
	"github.com/google/uuid"
)

type ProjectEntity struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Status         ProjectStatus `json:"status"`
	ServerID       *uuid.UUID    `json:"server_id"`
	Branch         string        `json:"branch"`
	RepoURL        string        `json:"repo_url"`
	WebhookEnabled bool          `json:"webhook_enabled"`
	WebhookSecret  string        `json:"-"`
}

// DeployEligible is the deploy-all selection predicate: the project must be
// active or running and have a server assigned. Anything else is filtered
// out, not an error.
func (p *ProjectEntity) DeployEligible() bool {
	if p.ServerID == nil {
		return false
	}
	return p.Status == ProjectStatusActive || p.Status == ProjectStatusRunning
}

// DeployBranch returns the configured branch, falling back to main when the
// project has none configured.
func (p *ProjectEntity) DeployBranch() string {
	if p.Branch == "" {
		return "main"
	}
	return p.Branch
}
