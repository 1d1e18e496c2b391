package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/domain"
	"uberfriends/internal/middleware"
	"uberfriends/internal/utils"
)

// currentUserID reads the authenticated caller's id set by the auth
// middleware. Missing or mistyped means the route is wired without it.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	if !ok {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	var validationErr domain.ValidationError
	var notFoundErr domain.NotFoundError
	var authzErr domain.AuthorizationError
	var conflictErr domain.ConflictError

	switch {
	case errors.As(err, &validationErr):
		utils.ValidationErrorResponse(c, map[string]string{validationErr.Field: validationErr.Msg})
	case errors.As(err, &notFoundErr):
		utils.NotFoundResponse(c, notFoundErr.Resource)
	case errors.As(err, &authzErr):
		utils.ForbiddenResponse(c, authzErr.Msg)
	case errors.As(err, &conflictErr):
		utils.ConflictResponse(c, conflictErr.Msg)
	default:
		utils.InternalServerErrorResponse(c)
	}
}
