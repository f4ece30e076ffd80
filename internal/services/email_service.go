package services

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Marketing assets for the launch waitlist.
const (
	waitlistListID     = "2e1b99cc-e123-4360-bb66-c4c78b7b1a4d"
	waitlistTemplateID = "d-92edaf8d637749ad8467e3a59fdae252"
)

// EmailSender is the outbound email surface the waitlist uses. Both calls
// are best effort; callers must not fail the signup on an error here.
type EmailSender interface {
	Enabled() bool
	AddToWaitlist(email string) error
	SendWaitlistEmail(email string) error
}

// SendGridEmailSender implements EmailSender against the SendGrid
// marketing and template-send APIs.
type SendGridEmailSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailSender(apiKey, fromEmail, fromName string) *SendGridEmailSender {
	return &SendGridEmailSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *SendGridEmailSender) Enabled() bool {
	return s.apiKey != ""
}

// AddToWaitlist upserts the address into the waitlist contact list.
func (s *SendGridEmailSender) AddToWaitlist(email string) error {
	body, err := json.Marshal(map[string]interface{}{
		"list_ids": []string{waitlistListID},
		"contacts": []map[string]string{{"email": email}},
	})
	if err != nil {
		return err
	}

	request := sendgrid.GetRequest(s.apiKey, "/v3/marketing/contacts", "https://api.sendgrid.com")
	request.Method = rest.Put
	request.Body = body

	response, err := sendgrid.API(request)
	if err != nil {
		return fmt.Errorf("sendgrid contact upsert: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid contact upsert: status %d", response.StatusCode)
	}
	return nil
}

// SendWaitlistEmail sends the waitlist confirmation template.
func (s *SendGridEmailSender) SendWaitlistEmail(email string) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	message.SetTemplateID(waitlistTemplateID)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", email))
	message.AddPersonalizations(personalization)

	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid template send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid template send: status %d", response.StatusCode)
	}
	return nil
}

// DisabledEmailSender is used when no SendGrid key is configured, so the
// waitlist keeps working in local and test environments.
type DisabledEmailSender struct{}

func (DisabledEmailSender) Enabled() bool { return false }

func (DisabledEmailSender) AddToWaitlist(email string) error {
	log.Debug().Str("email", email).Msg("email sending disabled, skipping contact upsert")
	return nil
}

func (DisabledEmailSender) SendWaitlistEmail(email string) error {
	log.Debug().Str("email", email).Msg("email sending disabled, skipping waitlist email")
	return nil
}
