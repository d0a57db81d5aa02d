package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/infrastructure/postgres/schemas"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) CreateProject(project *entities.ProjectEntity) error {
	return r.db.Create(ToProjectSchema(project)).Error
}

func (r *ProjectRepository) GetProjects() ([]*entities.ProjectEntity, error) {
	var projects []schemas.Project
	if err := r.db.Order("created_at asc").Find(&projects).Error; err != nil {
		return nil, err
	}
	projectEntities := make([]*entities.ProjectEntity, len(projects))
	for i, project := range projects {
		projectEntities[i] = ToProjectEntity(&project)
	}
	return projectEntities, nil
}

func (r *ProjectRepository) GetProjectByID(id string) (*entities.ProjectEntity, error) {
	var project schemas.Project
	if err := r.db.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToProjectEntity(&project), nil
}

func (r *ProjectRepository) GetProjectByWebhookSecret(secret string) (*entities.ProjectEntity, error) {
	if secret == "" {
		return nil, nil
	}
	var project schemas.Project
	if err := r.db.Where("webhook_secret = ?", secret).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToProjectEntity(&project), nil
}

func (r *ProjectRepository) UpdateWebhook(id string, enabled bool, secret string) error {
	return r.db.Model(&schemas.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"webhook_enabled": enabled,
			"webhook_secret":  secret,
		}).Error
}

func ToProjectSchema(project *entities.ProjectEntity) *schemas.Project {
	return &schemas.Project{
		ID:             project.ID,
		Name:           project.Name,
		Status:         project.Status,
		ServerID:       project.ServerID,
		Branch:         project.Branch,
		RepoURL:        project.RepoURL,
		WebhookEnabled: project.WebhookEnabled,
		WebhookSecret:  project.WebhookSecret,
	}
}

func ToProjectEntity(project *schemas.Project) *entities.ProjectEntity {
	return &entities.ProjectEntity{
		ID:             project.ID,
		Name:           project.Name,
		Status:         project.Status,
		ServerID:       project.ServerID,
		Branch:         project.Branch,
		RepoURL:        project.RepoURL,
		WebhookEnabled: project.WebhookEnabled,
		WebhookSecret:  project.WebhookSecret,
	}
}
