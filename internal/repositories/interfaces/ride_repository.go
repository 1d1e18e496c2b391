package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.RideRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error)

	// AssignDriver transitions the ride to assigned and binds the driver.
	// Only called after the driver was claimed via the conditional update.
	AssignDriver(ctx context.Context, rideID, driverID primitive.ObjectID) error

	// ListByUser returns the user's rides, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error)
}
