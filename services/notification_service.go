package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"beautyconsult-backend/models"
	"beautyconsult-backend/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// DefaultHistorySavedMessage is used when no active template exists.
const DefaultHistorySavedMessage = "[Username] 님이 [Salon] [Customer] 상담이력을 저장했습니다. ([Rows]건, 합계 [Total])"

// MessageSender delivers one text message and returns the provider id.
type MessageSender interface {
	Send(to, from, body string) (string, error)
}

type twilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender(accountSid, authToken string) MessageSender {
	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *twilioSender) Send(to, from, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type SenderNumbers struct {
	SMS      string
	WhatsApp string
}

// NotificationService tells opted-in admins about saved consultations and
// manages the message templates.
type NotificationService struct {
	users   repositories.UserRepository
	repo    repositories.NotificationRepository
	sender  MessageSender
	numbers SenderNumbers
}

func NewNotificationService(users repositories.UserRepository, repo repositories.NotificationRepository, sender MessageSender, numbers SenderNumbers) *NotificationService {
	return &NotificationService{users: users, repo: repo, sender: sender, numbers: numbers}
}

// HistorySaved sends one message per opted-in admin and logs every attempt.
// A failed recipient does not stop the others.
func (s *NotificationService) HistorySaved(ctx context.Context, rec models.HistoryRecord) error {
	if s.sender == nil {
		return nil
	}
	admins, err := s.users.ListNotifiableAdmins(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	if len(admins) == 0 {
		return nil
	}

	var templateID *uuid.UUID
	text := DefaultHistorySavedMessage
	tmpl, err := s.repo.ActiveTemplate(ctx, models.NotificationHistorySaved)
	switch {
	case err == nil:
		templateID = &tmpl.ID
		text = tmpl.Message
	case !errors.Is(err, repositories.ErrNotFound):
		log.Warn().Err(err).Msg("notification template lookup failed, using default")
	}
	message := RenderHistoryMessage(text, rec)

	failed := 0
	for _, admin := range admins {
		if admin.Phone == "" {
			continue
		}
		channel, to, from := s.route(admin.Phone)
		entry := models.NotificationLog{
			TemplateID: templateID,
			HistoryID:  rec.ID,
			Recipient:  admin.Phone,
			Message:    message,
			Status:     "sent",
			Channel:    channel,
			SentAt:     time.Now(),
		}

		sid, err := s.sender.Send(to, from, message)
		if err != nil {
			failed++
			entry.Status = "failed"
			entry.ErrorMessage = err.Error()
			log.Error().Err(err).Str("recipient", admin.Username).Str("channel", channel).Msg("notification send failed")
		} else {
			log.Info().Str("recipient", admin.Username).Str("channel", channel).Str("sid", sid).Msg("notification sent")
		}
		notificationsSent.WithLabelValues(channel, entry.Status).Inc()

		if err := s.repo.CreateLog(ctx, &entry); err != nil {
			log.Error().Err(err).Str("recipient", admin.Username).Msg("failed to write notification log")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d notifications failed", failed, len(admins))
	}
	return nil
}

// route picks WhatsApp for E.164 numbers and SMS otherwise.
func (s *NotificationService) route(phone string) (channel, to, from string) {
	if strings.HasPrefix(phone, "+") {
		return "whatsapp", "whatsapp:" + phone, "whatsapp:" + s.numbers.WhatsApp
	}
	return "sms", phone, s.numbers.SMS
}

// RenderHistoryMessage fills the [Username] [Customer] [Salon] [Rows] and
// [Total] placeholders.
func RenderHistoryMessage(text string, rec models.HistoryRecord) string {
	c := rec.Customer.Data()
	return strings.NewReplacer(
		"[Username]", rec.Username,
		"[Customer]", c.Customer,
		"[Salon]", c.Salon,
		"[Rows]", strconv.Itoa(len(rec.Rows)),
		"[Total]", strconv.FormatInt(rec.GrandTotal(), 10),
	).Replace(text)
}

// ── Templates ─────────────────────────────────────────────────────────────────

func (s *NotificationService) ListTemplates(ctx context.Context) ([]models.NotificationTemplate, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *NotificationService) CreateTemplate(ctx context.Context, kind, message string, active bool) (*models.NotificationTemplate, error) {
	t := &models.NotificationTemplate{Type: kind, Message: message, IsActive: active}
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

type TemplatePatch struct {
	Message  *string
	IsActive *bool
}

func (s *NotificationService) UpdateTemplate(ctx context.Context, id uuid.UUID, patch TemplatePatch) (*models.NotificationTemplate, error) {
	t, err := s.repo.FindTemplate(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if patch.Message != nil {
		t.Message = *patch.Message
	}
	if patch.IsActive != nil {
		t.IsActive = *patch.IsActive
	}
	if err := s.repo.UpdateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *NotificationService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteTemplate(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
