package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
)

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)

	// ListAvailable snapshots every driver currently marked available. The
	// snapshot is read-only; winning a driver requires ClaimAvailable.
	ListAvailable(ctx context.Context) ([]*models.Driver, error)

	// ClaimAvailable flips the driver to not_available only if it is still
	// available: a single conditional write, so exactly one of any set of
	// concurrent claimants wins. Returns false when the driver was already
	// taken.
	ClaimAvailable(ctx context.Context, id primitive.ObjectID) (bool, error)

	// Release puts a claimed driver back to available. Used when binding
	// the ride fails after a successful claim.
	Release(ctx context.Context, id primitive.ObjectID) error

	// SetAvailable is the driver's own go-online action. Idempotent: an
	// already-available driver reports changed=false with no error and no
	// other field touched.
	SetAvailable(ctx context.Context, id primitive.ObjectID) (changed bool, err error)
}
