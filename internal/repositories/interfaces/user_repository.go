package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByEmails resolves invitee identities; unknown emails are simply
	// absent from the result.
	FindByEmails(ctx context.Context, emails []string) ([]*models.User, error)
}
