package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plately/plately-backend/internal/db"
	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/requestdata"
	"github.com/plately/plately-backend/internal/services"
)

type MissionHandler struct {
	missionService services.MissionService
	log            *logger.Logger
}

func NewMissionHandler(missionService services.MissionService, baseLog *logger.Logger) *MissionHandler {
	return &MissionHandler{missionService: missionService, log: baseLog.With("handler", "MissionHandler")}
}

func (h *MissionHandler) GetToday(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	missions, err := h.missionService.GetTodayMissions(c.Request.Context(), rd.UserID)
	if err != nil {
		if errors.Is(err, db.ErrLockTimeout) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assignment busy, retry shortly"})
			return
		}
		h.log.Error("failed to get today's missions", "user_id", rd.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load missions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": missions})
}

func (h *MissionHandler) Complete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	result, err := h.missionService.CompleteMission(c.Request.Context(), missionID, rd.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
		case errors.Is(err, services.ErrMissionAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": "mission already processed"})
		default:
			h.log.Error("mission completion failed", "mission_id", missionID, "user_id", rd.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mission completion failed"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
