package api

import (
	"net/http"

	"github.com/pmarkota/dreamlog-backend/internal/errors"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseDreamID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		errors.HandleError(c, errors.New400Error("Invalid dream ID"))
		return uuid.Nil, false
	}
	return id, true
}

func createDream(dreams *services.DreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		var input services.DreamInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.New400Error(err.Error()))
			return
		}

		dream, err := dreams.Create(c.Request.Context(), caller.UserID, input)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, dream)
	}
}

func listDreams(dreams *services.DreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		views, err := dreams.List(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dreams": views})
	}
}

func getDream(dreams *services.DreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}
		dreamID, ok := parseDreamID(c, "id")
		if !ok {
			return
		}

		dream, err := dreams.Get(c.Request.Context(), caller.UserID, dreamID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, dream)
	}
}

func dreamsByDate(dreams *services.DreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		views, err := dreams.ListByDate(c.Request.Context(), caller.UserID, c.Param("date"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"dreams": views})
	}
}

func updateDream(dreams *services.DreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}
		dreamID, ok := parseDreamID(c, "id")
		if !ok {
			return
		}

		var input services.DreamInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errors.HandleError(c, errors.New400Error(err.Error()))
			return
		}

		dream, err := dreams.Update(c.Request.Context(), caller.UserID, dreamID, input)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, dream)
	}
}

func deleteDream(dreams *services.DreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}
		dreamID, ok := parseDreamID(c, "id")
		if !ok {
			return
		}

		if err := dreams.Delete(c.Request.Context(), caller.UserID, dreamID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Dream deleted"})
	}
}

func dreamStats(dreams *services.DreamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		stats, err := dreams.Stats(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func aiUsage(usage *services.AIUsageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity(c)
		if !ok {
			return
		}

		remaining, err := usage.Remaining(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		canUse, err := usage.CanUse(c.Request.Context(), caller.UserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"remaining_analyses": remaining,
			"can_use_ai":         canUse,
			"unlimited":          remaining == services.UnlimitedUses,
		})
	}
}
