package api

import (
	"net/http"

	"github.com/pmarkota/dreamlog-backend/internal/auth"
	"github.com/pmarkota/dreamlog-backend/internal/errors"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func getProfile(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		profile, err := users.GetProfile(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func updateProfile(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		var input services.ProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.New400Error(err.Error()))
			return
		}

		profile, err := users.UpdateProfile(c.Request.Context(), caller.UserID, input)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// updatePremiumStatus flips the caller's premium flag and re-issues the
// token so the is_premium claim stays in sync.
func updatePremiumStatus(users *services.UserService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		var input struct {
			IsPremium *bool `json:"is_premium" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.New400Error(err.Error()))
			return
		}

		user, err := users.SetPremium(c.Request.Context(), caller.UserID, *input.IsPremium)
		if err != nil {
			fail(c, err)
			return
		}

		token, err := auth.IssueToken(jwtSecret, user)
		if err != nil {
			errors.HandleError(c, errors.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}
