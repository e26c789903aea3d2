package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/requestdata"
	"github.com/plately/plately-backend/internal/services"
)

type GamificationHandler struct {
	gamification services.GamificationService
	userService  services.UserService
	log          *logger.Logger
}

func NewGamificationHandler(gamification services.GamificationService, userService services.UserService, baseLog *logger.Logger) *GamificationHandler {
	return &GamificationHandler{
		gamification: gamification,
		userService:  userService,
		log:          baseLog.With("handler", "GamificationHandler"),
	}
}

func (h *GamificationHandler) Summary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	summary, err := h.gamification.Summary(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("failed to build gamification summary", "user_id", rd.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RhythmForecast returns the upcoming publication days for the caller's
// restaurant so the client can preview the mission cadence.
func (h *GamificationHandler) RhythmForecast(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 60 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 60"})
			return
		}
		days = parsed
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if profile.Restaurant == nil {
		c.JSON(http.StatusOK, gin.H{"rhythm": "", "publication_days": []string{}})
		return
	}

	rhythm := profile.Restaurant.PublicationRhythm
	upcoming := services.NextPublicationDays(rhythm, time.Now().UTC(), days)
	formatted := make([]string, 0, len(upcoming))
	for _, d := range upcoming {
		formatted = append(formatted, d.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, gin.H{
		"rhythm":           rhythm,
		"publication_days": formatted,
	})
}
