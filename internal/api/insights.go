package api

import (
	"net/http"

	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func insightStats(insights *services.InsightsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		stats, err := insights.Stats(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func moodPatterns(insights *services.InsightsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		patterns, err := insights.MoodPatterns(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"moods": patterns})
	}
}

func themeAnalysis(insights *services.InsightsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		analysis, err := insights.ThemeAnalysis(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}

func timingPatterns(insights *services.InsightsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		patterns, err := insights.TimingPatterns(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, patterns)
	}
}

func moodThemeAnalysis(insights *services.InsightsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		analysis, err := insights.MoodThemeAnalysis(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}
