package entities

type TaskKind string

const (
	TaskKindDeployment   TaskKind = "deployment"
	TaskKindInstallation TaskKind = "installation"
)

func (k TaskKind) String() string {
	return string(k)
}

type TaskStatus string

const (
	TaskStatusIdle      TaskStatus = "idle"
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Terminal reports whether no further worker-driven transition follows.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusRunning  ProjectStatus = "running"
	ProjectStatusInactive ProjectStatus = "inactive"
	ProjectStatusFailed   ProjectStatus = "failed"
)

type TriggerSource string

const (
	TriggerSourceManual    TriggerSource = "manual"
	TriggerSourceWebhook   TriggerSource = "webhook"
	TriggerSourceScheduled TriggerSource = "scheduled"
)

type ChannelType string

const (
	ChannelTypeSlack   ChannelType = "slack"
	ChannelTypeDiscord ChannelType = "discord"
	ChannelTypeEmail   ChannelType = "email"
)

func (t ChannelType) IsValid() bool {
	switch t {
	case ChannelTypeSlack, ChannelTypeDiscord, ChannelTypeEmail:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
	DeliveryStatusIgnored DeliveryStatus = "ignored"
	DeliveryStatusPending DeliveryStatus = "pending"
)

// Color maps a delivery status to the badge color shown in delivery listings.
// Unknown statuses fall through to gray.
func (s DeliveryStatus) Color() string {
	switch s {
	case DeliveryStatusSuccess:
		return "green"
	case DeliveryStatusFailed:
		return "red"
	case DeliveryStatusPending:
		return "yellow"
	default:
		return "gray"
	}
}
