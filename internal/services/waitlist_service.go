package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pmarkota/dreamlog-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrAlreadyOnWaitlist = errors.New("email already on waitlist")

// Email delivery outcome reported back to the caller.
const (
	EmailStatusSent     = "sent"
	EmailStatusFailed   = "failed"
	EmailStatusDisabled = "disabled"
)

// WaitlistMetadata captures request context at signup time.
type WaitlistMetadata struct {
	IPAddress string `json:"ip_address,omitempty"`
	Referer   string `json:"referer,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Language  string `json:"language,omitempty"`
}

// WaitlistService manages launch waitlist signups. The database row is the
// source of truth; SendGrid calls afterwards are best effort.
type WaitlistService struct {
	db    *gorm.DB
	email EmailSender
}

func NewWaitlistService(db *gorm.DB, email EmailSender) *WaitlistService {
	return &WaitlistService{db: db, email: email}
}

// Join records the signup and returns the entry plus the email delivery
// status. Email failures never fail the signup.
func (s *WaitlistService) Join(ctx context.Context, email string, metadata WaitlistMetadata) (*models.WaitlistEntry, string, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrAlreadyOnWaitlist
	}

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", err
	}

	entry := &models.WaitlistEntry{
		Email:    email,
		Metadata: datatypes.JSON(encoded),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, "", err
	}

	if !s.email.Enabled() {
		return entry, EmailStatusDisabled, nil
	}

	status := EmailStatusSent
	if err := s.email.AddToWaitlist(email); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("waitlist contact upsert failed")
		status = EmailStatusFailed
	}
	if err := s.email.SendWaitlistEmail(email); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("waitlist confirmation email failed")
		status = EmailStatusFailed
	}
	return entry, status, nil
}

// List returns all waitlist entries, newest first.
func (s *WaitlistService) List(ctx context.Context) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	result := s.db.WithContext(ctx).Order("created_at desc").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}
