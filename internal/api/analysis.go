package api

import (
	"net/http"

	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func basicAnalysis(analysis *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}
		dreamID, ok := parseDreamID(c, "dreamId")
		if !ok {
			return
		}

		result, err := analysis.BasicAnalysis(c.Request.Context(), caller.UserID, dreamID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func premiumAnalysis(analysis *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}
		dreamID, ok := parseDreamID(c, "dreamId")
		if !ok {
			return
		}

		result, err := analysis.PremiumAnalysis(c.Request.Context(), caller.UserID, dreamID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func dailyPrompt(analysis *services.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		prompt, err := analysis.DailyPrompt(c.Request.Context(), caller.IsPremium)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, prompt)
	}
}
