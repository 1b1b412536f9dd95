package handlers

import (
	"net/http"

	"platter/middleware"
	"platter/models"
	"platter/services/dashboard"
	"platter/services/session"
	"platter/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler signs console users in and out and keeps their login-form drafts.
type SessionHandler struct {
	Sessions  *session.Store
	Dashboard *dashboard.Service
}

func NewSessionHandler(sessions *session.Store, dash *dashboard.Service) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Dashboard: dash}
}

type loginRequest struct {
	Role models.Role `json:"role" binding:"required"`
	models.Credentials
}

func clientOf(c *gin.Context) session.Client {
	return session.Client{DeviceID: middleware.DeviceID(c), IP: middleware.ClientIP(c)}
}

func currentSessionID(c *gin.Context) string {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.ID
	}
	return ""
}

// Bootstrap resolves the caller's identity once per console session.
func (h *SessionHandler) Bootstrap(c *gin.Context) {
	result, err := h.Sessions.Bootstrap(c.Request.Context(), currentSessionID(c), clientOf(c))
	if err != nil {
		respondError(c, err, "Could not start a session")
		return
	}
	respondJSON(c, http.StatusOK, result)
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login request", err.Error())
		return
	}
	result, err := h.Sessions.Login(c.Request.Context(), currentSessionID(c), req.Role, req.Credentials, clientOf(c))
	if err != nil {
		respondError(c, err, "Login failed. Please check your credentials.")
		return
	}
	if err := h.Dashboard.ClearLoginDraft(c.Request.Context(), middleware.DeviceID(c)); err != nil {
		getLogger(c).Warn("Failed to clear login draft", zap.Error(err))
	}
	respondJSON(c, http.StatusOK, result)
}

// Logout always ends the local session; a backend failure is only logged.
func (h *SessionHandler) Logout(c *gin.Context) {
	if id := currentSessionID(c); id != "" {
		if err := h.Sessions.Logout(c.Request.Context(), id); err != nil {
			getLogger(c).Warn("Logout incomplete", zap.String("sessionID", id), zap.Error(err))
		}
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *SessionHandler) GetLoginDraft(c *gin.Context) {
	draft, err := h.Dashboard.LoadLoginDraft(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *SessionHandler) SaveLoginDraft(c *gin.Context) {
	var draft models.LoginDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login draft", err.Error())
		return
	}
	if draft.Role != models.RoleAnonymous && !draft.Role.Valid() {
		respondError(c, session.ErrUnknownRole, "")
		return
	}
	if err := h.Dashboard.SaveLoginDraft(c.Request.Context(), middleware.DeviceID(c), draft); err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, draft)
}
