package sendhealthalert

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"bizhealth-workers/internal/common/camunda"
	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/metrics"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/storage"
)

const TaskType = "send-health-alert"

// EmailSender delivers alert emails. *aws.SESClient satisfies it.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender delivers alert texts. *aws.SNSClient satisfies it.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config    *Config
	owners    *storage.OwnerStore
	email     EmailSender
	sms       SMSSender
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

// NewHandler wires the alert worker. A nil sender disables its channel.
func NewHandler(config *Config, db *sql.DB, email EmailSender, sms SMSSender, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		owners:    storage.NewOwnerStore(db),
		email:     email,
		sms:       sms,
		validator: v,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.Decode(job, h.validator, &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.Complete(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Trend == models.TrendNoData {
		return &Output{
			Status:   StatusSkipped,
			Channels: []string{},
			Reason:   "owner has no recorded metrics",
		}, nil
	}
	if !h.shouldAlert(input) {
		return &Output{
			Status:   StatusSkipped,
			Channels: []string{},
			Reason:   fmt.Sprintf("score %d is not below %d and trend is %s", input.CurrentScore, h.config.AlertThreshold, trendOrNone(input.Trend)),
		}, nil
	}

	contact, err := h.owners.Contact(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	type delivery struct {
		channel string
		send    func() (string, error)
	}
	var deliveries []delivery

	if h.email != nil && contact.Email != "" {
		deliveries = append(deliveries, delivery{ChannelEmail, func() (string, error) {
			return h.email.SendEmail(ctx, contact.Email, emailSubject(input), emailBody(contact, input))
		}})
	}
	if h.sms != nil && contact.Phone != "" && input.CurrentScore < h.config.CriticalThreshold {
		deliveries = append(deliveries, delivery{ChannelSMS, func() (string, error) {
			return h.sms.SendSMS(ctx, contact.Phone, smsText(input))
		}})
	}

	if len(deliveries) == 0 {
		h.logger.Warn("no reachable channel for health alert", map[string]interface{}{"ownerId": input.OwnerID})
		return &Output{Status: StatusNoContact, Channels: []string{}, Reason: "owner has no enabled contact channel"}, nil
	}

	sent := make([]string, 0, len(deliveries))
	var lastErr error
	for _, d := range deliveries {
		messageID, err := d.send()
		if err != nil {
			h.logger.Warn("health alert delivery failed", map[string]interface{}{
				"ownerId": input.OwnerID,
				"channel": d.channel,
				"error":   err.Error(),
			})
			lastErr = apperrors.NewNotificationSendFailedError(d.channel, err)
			continue
		}
		metrics.HealthAlertsSent.WithLabelValues(d.channel).Inc()
		h.logger.Info("health alert delivered", map[string]interface{}{
			"ownerId":   input.OwnerID,
			"channel":   d.channel,
			"messageId": messageID,
		})
		sent = append(sent, d.channel)
	}

	// nothing went out, so a retry cannot duplicate a delivery
	if len(sent) == 0 {
		return nil, lastErr
	}

	status := StatusSent
	if len(sent) < len(deliveries) {
		status = StatusPartial
	}
	return &Output{
		NotificationID: uuid.New().String(),
		Status:         status,
		Channels:       sent,
	}, nil
}

// shouldAlert expects a summary backed by data; NO_DATA is skipped before this.
func (h *Handler) shouldAlert(input *Input) bool {
	return input.CurrentScore < h.config.AlertThreshold || input.Trend == models.TrendDeclining
}

func trendOrNone(t models.Trend) string {
	if t == "" {
		return "unknown"
	}
	return string(t)
}

func emailSubject(input *Input) string {
	return fmt.Sprintf("Business health alert: score %d", input.CurrentScore)
}

func emailBody(contact *storage.OwnerContact, input *Input) string {
	name := contact.Name
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s,\n\nYour business health score is %d", name, input.CurrentScore)
	if input.Trend != "" {
		body += fmt.Sprintf(" and the trend is %s", input.Trend)
	}
	body += ".\n"
	if input.Recommendation != "" {
		body += "\n" + input.Recommendation + "\n"
	}
	return body + "\nLog today's sales, expenses and wastage to keep your score current.\n"
}

func smsText(input *Input) string {
	return fmt.Sprintf("BizHealth: your business health score is %d and needs immediate attention.", input.CurrentScore)
}
