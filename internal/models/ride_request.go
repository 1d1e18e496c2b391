package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string

const (
	RideStatusPending   RideStatus = "pending"
	RideStatusAssigned  RideStatus = "assigned"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// RideRequest is mutated only by the dispatch service. Once completed or
// cancelled it is terminal.
type RideRequest struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	SourceLocation   int64               `json:"source_location" bson:"source_location"`
	DestLocation     int64               `json:"dest_location" bson:"dest_location"`
	Status           RideStatus          `json:"status" bson:"status" default:"pending"`
	AssignedDriverID *primitive.ObjectID `json:"assigned_driver_id,omitempty" bson:"assigned_driver_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}

// RideHistoryEntry is a ride joined with its assigned driver's public fields.
type RideHistoryEntry struct {
	RideID         primitive.ObjectID `json:"ride_id"`
	SourceLocation int64              `json:"source_location"`
	DestLocation   int64              `json:"dest_location"`
	Status         RideStatus         `json:"status"`
	DriverName     string             `json:"driver_name,omitempty"`
	VehicleID      string             `json:"vehicle_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}
