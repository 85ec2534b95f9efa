package sendhealthalert

import "bizhealth-workers/internal/models"

const (
	StatusSent      = "SENT"
	StatusPartial   = "PARTIAL"
	StatusSkipped   = "SKIPPED"
	StatusNoContact = "NO_CONTACT"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type Input struct {
	OwnerID        string       `json:"ownerId" validate:"required"`
	CurrentScore   int          `json:"currentScore" validate:"min=0,max=100"`
	Trend          models.Trend `json:"trend" validate:"omitempty,oneof=IMPROVING DECLINING STABLE INSUFFICIENT_DATA NO_DATA"`
	Recommendation string       `json:"recommendation"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"`
	Channels       []string `json:"channels"`
	Reason         string   `json:"reason,omitempty"`
}
