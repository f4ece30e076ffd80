package api

import (
	stderrors "errors"

	"github.com/pmarkota/dreamlog-backend/internal/auth"
	"github.com/pmarkota/dreamlog-backend/internal/errors"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the route handlers need.
type Services struct {
	Dreams   *services.DreamService
	Analysis *services.AnalysisService
	Usage    *services.AIUsageService
	Insights *services.InsightsService
	Users    *services.UserService
	Waitlist *services.WaitlistService
	Billing  *services.BillingService
}

func SetupRoutes(r *gin.Engine, svc Services, jwtSecret string) {
	authed := auth.AuthMiddleware(jwtSecret)
	premium := auth.RequirePremium(svc.Users)

	dreams := r.Group("/api/dreams", authed)
	{
		dreams.POST("", createDream(svc.Dreams))
		dreams.GET("", listDreams(svc.Dreams))
		dreams.GET("/stats", dreamStats(svc.Dreams))
		dreams.GET("/usage/ai", aiUsage(svc.Usage))
		dreams.GET("/date/:date", dreamsByDate(svc.Dreams))
		dreams.GET("/:id", getDream(svc.Dreams))
		dreams.PUT("/:id", updateDream(svc.Dreams))
		dreams.DELETE("/:id", deleteDream(svc.Dreams))
	}

	analysis := r.Group("/api/analysis", authed)
	{
		analysis.GET("/basic/:dreamId", basicAnalysis(svc.Analysis))
		analysis.GET("/premium/:dreamId", premiumAnalysis(svc.Analysis))
		analysis.GET("/prompt/daily", dailyPrompt(svc.Analysis))
	}

	user := r.Group("/api/user", authed)
	{
		user.GET("/profile", getProfile(svc.Users))
		user.PUT("/profile", updateProfile(svc.Users))
		user.PUT("/premium-status", updatePremiumStatus(svc.Users, jwtSecret))
	}

	insights := r.Group("/api/insights", authed, premium)
	{
		insights.GET("/stats", insightStats(svc.Insights))
		insights.GET("/moods", moodPatterns(svc.Insights))
		insights.GET("/themes", themeAnalysis(svc.Insights))
		insights.GET("/timing-patterns", timingPatterns(svc.Insights))
		insights.GET("/mood-theme-analysis", moodThemeAnalysis(svc.Insights))
	}

	waitlist := r.Group("/api/waitlist")
	{
		waitlist.POST("", joinWaitlist(svc.Waitlist))
		waitlist.GET("", authed, listWaitlist(svc.Waitlist))
	}

	billing := r.Group("/api/billing")
	{
		billing.POST("/checkout", authed, createCheckout(svc.Billing))
		billing.POST("/webhook", billingWebhook(svc.Billing))
	}
}

// fail translates service sentinels into the error taxonomy.
func fail(c *gin.Context, err error) {
	var validation services.ValidationError
	switch {
	case stderrors.As(err, &validation):
		errors.HandleError(c, errors.New400Error(validation.Error()))
	case stderrors.Is(err, services.ErrDreamNotFound):
		errors.HandleError(c, errors.New404Error("Dream not found"))
	case stderrors.Is(err, services.ErrUserNotFound):
		errors.HandleError(c, errors.New404Error("User not found"))
	case stderrors.Is(err, services.ErrQuotaExceeded):
		errors.HandleError(c, errors.NewQuotaExceededError())
	case stderrors.Is(err, services.ErrEmailTaken):
		errors.HandleError(c, errors.New400Error("Email is already registered"))
	case stderrors.Is(err, services.ErrAlreadyOnWaitlist):
		errors.HandleError(c, errors.New400Error("Email is already on the waitlist"))
	case stderrors.Is(err, services.ErrInvalidCredentials):
		errors.HandleError(c, errors.New401Error())
	case stderrors.Is(err, services.ErrMalformedReply):
		errors.HandleError(c, errors.New502Error("AI reply could not be parsed", err))
	case stderrors.Is(err, services.ErrAIUnavailable):
		errors.HandleError(c, errors.New502Error("AI provider is unavailable", err))
	default:
		errors.HandleError(c, errors.New500Error(err))
	}
}

// identity pulls the authenticated caller or writes a 401.
func identity(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.CurrentUser(c)
	if !ok {
		errors.HandleError(c, errors.New401Error())
	}
	return id, ok
}
