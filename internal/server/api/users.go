package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/server/services"
)

// UserHandler serves registration, login, token refresh, the profile
// endpoint and the admin premium toggle.
type UserHandler struct {
	service *services.UserService
	logger  logging.Logger
}

func NewUserHandler(service *services.UserService, logger logging.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	pair, err := h.service.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": common.ErrUsernameTaken.Error()})
			return
		}
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Info(c.Request.Context(), "user registered", "username", req.Username)
	c.JSON(http.StatusCreated, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrInvalidCredentials.Error()})
			return
		}
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrRefreshTokenExpired.Error()})
		case errors.Is(err, common.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		default:
			h.logger.Error(c.Request.Context(), err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Me reports the caller's username and whether the subscription is active
// right now. The client's entitlement check reads this per evaluation.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": common.ErrNotFound.Error()})
			return
		}
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"entitled": user.Entitled(time.Now()),
	})
}

type setPremiumRequest struct {
	Until time.Time `json:"until"`
}

// AdminSetPremium sets the user's subscription horizon. A timestamp in the
// past revokes.
func (h *UserHandler) AdminSetPremium(c *gin.Context) {
	var req setPremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Until.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "until is required"})
		return
	}

	username := c.Param("username")
	if err := h.service.SetPremium(c.Request.Context(), username, req.Until); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": common.ErrNotFound.Error()})
			return
		}
		h.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Info(c.Request.Context(), "premium updated", "username", username, "until", req.Until)
	c.Status(http.StatusNoContent)
}
