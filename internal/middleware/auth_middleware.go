package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"uberfriends/internal/models"
	"uberfriends/internal/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUserType = "user_type"
	ContextEmail    = "email"
)

// AuthRequired validates the bearer token and stores the caller's identity in
// the request context.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], jwtSecret)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserType, claims.UserType)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// DriverRequired must run after AuthRequired.
func DriverRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString(ContextUserType)
		if userType != string(models.UserTypeDriver) {
			utils.ForbiddenResponse(c, "driver account required")
			c.Abort()
			return
		}
		c.Next()
	}
}
