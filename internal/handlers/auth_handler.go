package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uberfriends/internal/models"
	"uberfriends/internal/services"
	"uberfriends/internal/utils"
	"uberfriends/pkg/logger"
)

type AuthHandler struct {
	authService services.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Name, req.Email, req.Password, models.UserType(req.UserType))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.CreatedResponse(c, "account created", gin.H{
		"user_id":   user.ID.Hex(),
		"name":      user.Name,
		"email":     user.Email,
		"user_type": user.UserType,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c)
			return
		}
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, "login successful", gin.H{
		"user_id":   user.ID.Hex(),
		"name":      user.Name,
		"user_type": user.UserType,
		"tokens":    tokens,
	})
}
