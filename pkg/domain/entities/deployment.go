package entities

import (
	"time"

	"github.com/google/uuid"
)

// CommitHashPending is the placeholder stored on a deployment record until
// the execution layer resolves the real commit.
const CommitHashPending = "pending"

type DeploymentRecord struct {
	ID          uuid.UUID     `json:"id"`
	ProjectID   uuid.UUID     `json:"project_id"`
	ServerID    *uuid.UUID    `json:"server_id"`
	UserID      uuid.UUID     `json:"user_id"`
	Branch      string        `json:"branch"`
	CommitHash  string        `json:"commit_hash"`
	Status      TaskStatus    `json:"status"`
	TriggeredBy TriggerSource `json:"triggered_by"`
	CreatedAt   time.Time     `json:"created_at"`
}
