package repositories

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
	"github.com/deploydeck/deploydeck-backend/pkg/infrastructure/postgres/schemas"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) CreateChannel(channel *entities.NotificationChannel) error {
	schema, err := ToChannelSchema(channel)
	if err != nil {
		return err
	}
	return r.db.Create(schema).Error
}

func (r *ChannelRepository) UpdateChannel(channel *entities.NotificationChannel) error {
	schema, err := ToChannelSchema(channel)
	if err != nil {
		return err
	}
	return r.db.Model(&schemas.NotificationChannel{}).
		Where("id = ?", channel.ID).
		Updates(map[string]interface{}{
			"name":        schema.Name,
			"type":        schema.Type,
			"enabled":     schema.Enabled,
			"events":      schema.Events,
			"webhook_url": schema.WebhookURL,
			"email":       schema.Email,
			"project_id":  schema.ProjectID,
		}).Error
}

func (r *ChannelRepository) UpdateChannelEnabled(id string, enabled bool) error {
	return r.db.Model(&schemas.NotificationChannel{}).Where("id = ?", id).Update("enabled", enabled).Error
}

func (r *ChannelRepository) DeleteChannel(id string) error {
	return r.db.Where("id = ?", id).Delete(&schemas.NotificationChannel{}).Error
}

func (r *ChannelRepository) GetChannelByID(id string) (*entities.NotificationChannel, error) {
	var channel schemas.NotificationChannel
	if err := r.db.Where("id = ?", id).First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToChannelEntity(&channel)
}

func (r *ChannelRepository) GetChannels() ([]*entities.NotificationChannel, error) {
	var channels []schemas.NotificationChannel
	if err := r.db.Order("created_at asc").Find(&channels).Error; err != nil {
		return nil, err
	}
	channelEntities := make([]*entities.NotificationChannel, 0, len(channels))
	for i := range channels {
		entity, err := ToChannelEntity(&channels[i])
		if err != nil {
			return nil, err
		}
		channelEntities = append(channelEntities, entity)
	}
	return channelEntities, nil
}

func ToChannelSchema(channel *entities.NotificationChannel) (*schemas.NotificationChannel, error) {
	events, err := json.Marshal(channel.Events)
	if err != nil {
		return nil, err
	}
	return &schemas.NotificationChannel{
		ID:         channel.ID,
		Name:       channel.Name,
		Type:       channel.Type,
		Enabled:    channel.Enabled,
		Events:     datatypes.JSON(events),
		WebhookURL: channel.WebhookURL,
		Email:      channel.Email,
		ProjectID:  channel.ProjectID,
	}, nil
}

func ToChannelEntity(channel *schemas.NotificationChannel) (*entities.NotificationChannel, error) {
	var events []string
	if len(channel.Events) > 0 {
		if err := json.Unmarshal(channel.Events, &events); err != nil {
			return nil, err
		}
	}
	return &entities.NotificationChannel{
		ID:         channel.ID,
		Name:       channel.Name,
		Type:       channel.Type,
		Enabled:    channel.Enabled,
		Events:     events,
		WebhookURL: channel.WebhookURL,
		Email:      channel.Email,
		ProjectID:  channel.ProjectID,
	}, nil
}
