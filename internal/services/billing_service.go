package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pmarkota/dreamlog-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// premiumPriceCents is the one-time price of the premium upgrade.
const premiumPriceCents int64 = 499

// PremiumUpgrader marks an account premium after a completed payment.
type PremiumUpgrader interface {
	SetPremium(ctx context.Context, userID uuid.UUID, premium bool) (*models.User, error)
}

// BillingService creates Stripe checkout sessions for the premium plan and
// applies verified webhook events.
type BillingService struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	users         PremiumUpgrader
}

func NewBillingService(secretKey, webhookSecret, successURL, cancelURL string, users PremiumUpgrader) *BillingService {
	stripe.Key = secretKey
	return &BillingService{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		users:         users,
	}
}

// CreateCheckoutSession starts a checkout for the premium upgrade. The user
// ID travels as the client reference so the webhook can find the account.
func (s *BillingService) CreateCheckoutSession(userID uuid.UUID) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Dreamlog Premium"),
					},
					UnitAmount: stripe.Int64(premiumPriceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(userID.String()),
	}

	return session.New(params)
}

// HandleWebhook verifies the event signature and flips the premium flag on
// a completed checkout.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var checkoutSession stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
		return fmt.Errorf("webhook payload decode: %w", err)
	}

	userID, err := uuid.Parse(checkoutSession.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("webhook client reference: %w", err)
	}

	_, err = s.users.SetPremium(ctx, userID, true)
	return err
}
