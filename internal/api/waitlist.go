package api

import (
	"net/http"
	"strings"

	"github.com/pmarkota/dreamlog-backend/internal/errors"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// clientIP prefers the X-Forwarded-For chain set by the proxy in front of
// the API, falling back to the direct peer address.
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.ClientIP()
}

func joinWaitlist(waitlist *services.WaitlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.New400Error("A valid email is required"))
			return
		}

		metadata := services.WaitlistMetadata{
			IPAddress: clientIP(c),
			Referer:   c.GetHeader("Referer"),
			UserAgent: c.GetHeader("User-Agent"),
			Language:  c.GetHeader("Accept-Language"),
		}

		entry, emailStatus, err := waitlist.Join(c.Request.Context(), input.Email, metadata)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":      "You're on the waitlist!",
			"entry":        entry,
			"email_status": emailStatus,
		})
	}
}

func listWaitlist(waitlist *services.WaitlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := waitlist.List(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
	}
}
