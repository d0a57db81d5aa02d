package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deploydeck/deploydeck-backend/internal/logger"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/executor"
	"github.com/deploydeck/deploydeck-backend/pkg/notify"
	"github.com/deploydeck/deploydeck-backend/pkg/progress"
)

// ErrNoEligibleProjects distinguishes "nothing matched the selection
// predicate" from a deploy-all that dispatched work; the success path always
// implies at least one created record.
var ErrNoEligibleProjects = errors.New("no eligible projects to deploy")

// ErrProjectNotFound is returned for single-project operations on an unknown id.
var ErrProjectNotFound = errors.New("project not found")

const (
	EventDeploymentStarted   = "deployment.started"
	EventDeploymentCompleted = "deployment.completed"
	EventDeploymentFailed    = "deployment.failed"
)

type ProjectRepository interface {
	GetProjects() ([]*entities.ProjectEntity, error)
	GetProjectByID(id string) (*entities.ProjectEntity, error)
	GetProjectByWebhookSecret(secret string) (*entities.ProjectEntity, error)
	UpdateWebhook(id string, enabled bool, secret string) error
}

type DeploymentRepository interface {
	CreateDeployment(deployment *entities.DeploymentRecord) error
	UpdateDeploymentStatus(id string, status entities.TaskStatus) error
	UpdateDeploymentCommit(id string, commitHash string) error
	GetDeploymentsByProjectID(projectID string) ([]*entities.DeploymentRecord, error)
}

type TaskManager interface {
	Start()
	AddTask(task entities.Task)
	Stop()
}

// Notifier is what the dispatcher needs from the fan-out engine. It is
// optional; a nil notifier means terminal events are only logged.
type Notifier interface {
	Notify(ctx context.Context, event notify.Event) FanoutResult
}

// DeployAllResult is the aggregate outcome surfaced to the initiator:
// counts and ids, not record objects. Individual task completion is async.
type DeployAllResult struct {
	Count      int         `json:"count"`
	ProjectIDs []uuid.UUID `json:"project_ids"`
}

type DeploymentService struct {
	projects    ProjectRepository
	deployments DeploymentRepository
	store       progress.Store
	taskManager TaskManager
	executor    executor.Executor
	notifier    Notifier
}

func NewDeploymentService(
	projects ProjectRepository,
	deployments DeploymentRepository,
	store progress.Store,
	taskManager TaskManager,
	exec executor.Executor,
	notifier Notifier,
) *DeploymentService {
	service := &DeploymentService{
		projects:    projects,
		deployments: deployments,
		store:       store,
		taskManager: taskManager,
		executor:    exec,
		notifier:    notifier,
	}

	service.taskManager.Start()

	return service
}

// DeployAll dispatches a deployment for every eligible project: active or
// running status with a server assigned. Ineligible projects are filtered,
// not reported as errors. Each call creates fresh records, so repeating it
// against the same set intentionally produces duplicate deployments.
func (s *DeploymentService) DeployAll(ctx context.Context, userID uuid.UUID) (DeployAllResult, error) {
	projects, err := s.projects.GetProjects()
	if err != nil {
		return DeployAllResult{}, err
	}

	var eligible []*entities.ProjectEntity
	for _, project := range projects {
		if project.DeployEligible() {
			eligible = append(eligible, project)
		}
	}
	if len(eligible) == 0 {
		return DeployAllResult{}, ErrNoEligibleProjects
	}

	result := DeployAllResult{ProjectIDs: make([]uuid.UUID, 0, len(eligible))}
	for _, project := range eligible {
		record, err := s.dispatch(ctx, project, userID, entities.TriggerSourceManual)
		if err != nil {
			logger.Error("failed to dispatch deployment",
				zap.String("projectId", project.ID.String()),
				zap.Error(err))
			return result, err
		}
		result.Count++
		result.ProjectIDs = append(result.ProjectIDs, project.ID)
		logger.Info("deployment dispatched",
			zap.String("projectId", project.ID.String()),
			zap.String("deploymentId", record.ID.String()))
	}
	return result, nil
}

// Deploy dispatches a single deployment for one project.
func (s *DeploymentService) Deploy(
	ctx context.Context,
	projectID string,
	userID uuid.UUID,
	triggeredBy entities.TriggerSource,
) (*entities.DeploymentRecord, error) {
	project, err := s.projects.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return s.dispatch(ctx, project, userID, triggeredBy)
}

func (s *DeploymentService) GetDeployments(projectID string) ([]*entities.DeploymentRecord, error) {
	return s.deployments.GetDeploymentsByProjectID(projectID)
}

// dispatch creates the deployment record and enqueues the execution job.
// The record exists before the worker writes its first progress update; the
// two stores may be briefly inconsistent by design.
func (s *DeploymentService) dispatch(
	ctx context.Context,
	project *entities.ProjectEntity,
	userID uuid.UUID,
	triggeredBy entities.TriggerSource,
) (*entities.DeploymentRecord, error) {
	record := &entities.DeploymentRecord{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		ServerID:    project.ServerID,
		UserID:      userID,
		Branch:      project.DeployBranch(),
		CommitHash:  entities.CommitHashPending,
		Status:      entities.TaskStatusPending,
		TriggeredBy: triggeredBy,
	}
	if err := s.deployments.CreateDeployment(record); err != nil {
		return nil, err
	}

	// The run outlives the originating request, so the worker gets its own
	// context; the request context only covers record creation.
	projectName := project.Name
	s.taskManager.AddTask(func() {
		s.runDeployment(context.Background(), record, projectName)
	})

	return record, nil
}

// runDeployment is the worker body: it owns the progress entry for the
// target for the duration of the run and mirrors the terminal state back
// onto the deployment record before firing the outcome event.
func (s *DeploymentService) runDeployment(ctx context.Context, record *entities.DeploymentRecord, projectName string) {
	writer := progress.NewWriter(s.store, entities.TaskKindDeployment, record.ProjectID.String())
	if err := writer.Begin(ctx); err != nil {
		logger.Error("failed to claim progress entry",
			zap.String("deploymentId", record.ID.String()),
			zap.Error(err))
		return
	}

	if err := s.deployments.UpdateDeploymentStatus(record.ID.String(), entities.TaskStatusRunning); err != nil {
		logger.Error("failed to mark deployment running",
			zap.String("deploymentId", record.ID.String()),
			zap.Error(err))
	}
	if err := writer.Start(ctx); err != nil {
		if errors.Is(err, progress.ErrSuperseded) {
			return
		}
		logger.Error("failed to write running status", zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notify.Event{
			Name:        EventDeploymentStarted,
			ProjectID:   record.ProjectID,
			ProjectName: projectName,
			Status:      string(entities.TaskStatusRunning),
			Message:     "deployment started",
			OccurredAt:  time.Now().UTC(),
		})
	}

	job := executor.Job{
		Kind:       entities.TaskKindDeployment,
		TargetID:   record.ProjectID.String(),
		RecordID:   record.ID,
		ProjectRef: projectName,
		Branch:     record.Branch,
	}
	commitHash, runErr := s.executor.Execute(ctx, job, writer)

	if runErr != nil {
		s.finishDeployment(ctx, writer, record, projectName, entities.TaskStatusFailed, runErr)
		return
	}
	if commitHash != "" {
		if err := s.deployments.UpdateDeploymentCommit(record.ID.String(), commitHash); err != nil {
			logger.Error("failed to store commit hash",
				zap.String("deploymentId", record.ID.String()),
				zap.Error(err))
		}
	}
	s.finishDeployment(ctx, writer, record, projectName, entities.TaskStatusCompleted, nil)
}

func (s *DeploymentService) finishDeployment(
	ctx context.Context,
	writer *progress.Writer,
	record *entities.DeploymentRecord,
	projectName string,
	status entities.TaskStatus,
	runErr error,
) {
	var writeErr error
	if status == entities.TaskStatusCompleted {
		writeErr = writer.Complete(ctx)
	} else {
		writeErr = writer.Fail(ctx, runErr)
	}
	if errors.Is(writeErr, progress.ErrSuperseded) {
		// A newer run owns the key; leave record and notifications to it.
		logger.Debugf("deployment %s superseded before terminal write", record.ID)
		return
	}
	if writeErr != nil {
		logger.Error("failed to write terminal status",
			zap.String("deploymentId", record.ID.String()),
			zap.Error(writeErr))
	}

	if err := s.deployments.UpdateDeploymentStatus(record.ID.String(), status); err != nil {
		logger.Error("failed to update deployment record status",
			zap.String("deploymentId", record.ID.String()),
			zap.Error(err))
	}

	if s.notifier == nil {
		return
	}
	event := notify.Event{
		Name:        EventDeploymentCompleted,
		ProjectID:   record.ProjectID,
		ProjectName: projectName,
		Status:      string(status),
		Message:     "deployment finished",
		OccurredAt:  time.Now().UTC(),
	}
	if status == entities.TaskStatusFailed {
		event.Name = EventDeploymentFailed
		if runErr != nil {
			event.Message = runErr.Error()
		}
	}
	result := s.notifier.Notify(ctx, event)
	logger.Info("deployment outcome notified",
		zap.String("deploymentId", record.ID.String()),
		zap.String("event", event.Name),
		zap.Int("attempted", result.Attempted),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed))
}
