package api

import (
	"io"
	"net/http"

	"github.com/pmarkota/dreamlog-backend/internal/errors"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func createCheckout(billing *services.BillingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		session, err := billing.CreateCheckoutSession(caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "url": session.URL})
	}
}

func billingWebhook(billing *services.BillingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const maxBodyBytes = int64(65536)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			errors.HandleError(c, errors.New400Error("Error reading request body"))
			return
		}

		signatureHeader := c.GetHeader("Stripe-Signature")
		if err := billing.HandleWebhook(c.Request.Context(), payload, signatureHeader); err != nil {
			errors.HandleError(c, errors.New400Error("Failed to process webhook event"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
