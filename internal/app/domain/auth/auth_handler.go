package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lmendo/tripdesk/internal/app/handlers"
	"github.com/lmendo/tripdesk/internal/app/middleware"
	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/backend"
	"github.com/lmendo/tripdesk/internal/observability/metrics"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

type AuthHandlers struct {
	service AuthService
	cfg     config.SessionConfig
	logger  *zap.Logger
}

func NewAuthHandlers(service AuthService, cfg config.SessionConfig, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{service: service, cfg: cfg, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin signs the user in and sets the session cookie.
func (h *AuthHandlers) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	cookie, sess, err := h.service.Login(c.Request.Context(), backend.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		handlers.Error(c, err)
		return
	}

	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	middleware.SetSessionCookie(c, h.cfg, cookie)
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// HandleLogout clears the session on both ends.
func (h *AuthHandlers) HandleLogout(c *gin.Context) {
	if sess := middleware.GetSession(c); sess != nil {
		h.service.Logout(c.Request.Context(), sess.ID)
	}
	middleware.ClearSessionCookie(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// HandleMe returns the freshest profile behind the session. A rejected
// token clears the session and sends the browser back to login.
func (h *AuthHandlers) HandleMe(c *gin.Context) {
	sess := middleware.GetSession(c)

	user, err := h.service.RefreshProfile(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			middleware.ClearSessionCookie(c, h.cfg)
		}
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required"`
}

// HandleRegister creates a new account. The role must be one of the two the
// platform knows.
func (h *AuthHandlers) HandleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email, password and role are required"})
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be traveler or provider"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), backend.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}
