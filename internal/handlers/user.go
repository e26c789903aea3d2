package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/requestdata"
	"github.com/plately/plately-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
	log         *logger.Logger
}

func NewUserHandler(userService services.UserService, baseLog *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: baseLog.With("handler", "UserHandler")}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	profile, err := h.userService.GetProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("failed to load profile", "user_id", rd.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateRhythmRequest struct {
	Rhythm string `json:"rhythm" binding:"required"`
}

func (h *UserHandler) UpdateRhythm(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req updateRhythmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userService.UpdateRhythm(c.Request.Context(), rd.UserID, req.Rhythm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rhythm updated"})
}
