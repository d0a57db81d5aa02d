package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/infrastructure/postgres/schemas"
)

type DeploymentRepository struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) *DeploymentRepository {
	return &DeploymentRepository{db: db}
}

func (r *DeploymentRepository) CreateDeployment(deployment *entities.DeploymentRecord) error {
	return r.db.Create(ToDeploymentSchema(deployment)).Error
}

func (r *DeploymentRepository) UpdateDeploymentStatus(id string, status entities.TaskStatus) error {
	return r.db.Model(&schemas.Deployment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *DeploymentRepository) UpdateDeploymentCommit(id string, commitHash string) error {
	return r.db.Model(&schemas.Deployment{}).Where("id = ?", id).Update("commit_hash", commitHash).Error
}

func (r *DeploymentRepository) GetDeploymentByID(id string) (*entities.DeploymentRecord, error) {
	var deployment schemas.Deployment
	if err := r.db.Where("id = ?", id).First(&deployment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToDeploymentEntity(&deployment), nil
}

func (r *DeploymentRepository) GetDeploymentsByProjectID(projectID string) ([]*entities.DeploymentRecord, error) {
	var deployments []schemas.Deployment
	if err := r.db.Where("project_id = ?", projectID).Order("created_at desc").Find(&deployments).Error; err != nil {
		return nil, err
	}
	deploymentEntities := make([]*entities.DeploymentRecord, len(deployments))
	for i, deployment := range deployments {
		deploymentEntities[i] = ToDeploymentEntity(&deployment)
	}
	return deploymentEntities, nil
}

func ToDeploymentSchema(deployment *entities.DeploymentRecord) *schemas.Deployment {
	return &schemas.Deployment{
		ID:          deployment.ID,
		ProjectID:   deployment.ProjectID,
		ServerID:    deployment.ServerID,
		UserID:      deployment.UserID,
		Branch:      deployment.Branch,
		CommitHash:  deployment.CommitHash,
		Status:      deployment.Status,
		TriggeredBy: deployment.TriggeredBy,
	}
}

func ToDeploymentEntity(deployment *schemas.Deployment) *entities.DeploymentRecord {
	return &entities.DeploymentRecord{
		ID:          deployment.ID,
		ProjectID:   deployment.ProjectID,
		ServerID:    deployment.ServerID,
		UserID:      deployment.UserID,
		Branch:      deployment.Branch,
		CommitHash:  deployment.CommitHash,
		Status:      deployment.Status,
		TriggeredBy: deployment.TriggeredBy,
		CreatedAt:   deployment.CreatedAt,
	}
}
