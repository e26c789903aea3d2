package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/requestdata"
)

type NotificationHandler struct {
	notifRepo repos.NotificationRepo
	log       *logger.Logger
}

func NewNotificationHandler(notifRepo repos.NotificationRepo, baseLog *logger.Logger) *NotificationHandler {
	return &NotificationHandler{notifRepo: notifRepo, log: baseLog.With("handler", "NotificationHandler")}
}

func (h *NotificationHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
			return
		}
		limit = parsed
	}

	notifications, err := h.notifRepo.GetByUserID(c.Request.Context(), nil, rd.UserID, limit)
	if err != nil {
		h.log.Error("failed to list notifications", "user_id", rd.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	notifID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	updated, err := h.notifRepo.MarkRead(c.Request.Context(), nil, notifID, rd.UserID, time.Now().UTC())
	if err != nil {
		h.log.Error("failed to mark notification read", "notification_id", notifID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification read"})
}
