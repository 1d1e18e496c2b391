package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverStatus string

const (
	DriverStatusAvailable    DriverStatus = "available"
	DriverStatusNotAvailable DriverStatus = "not_available"
)

// Driver is a dispatchable driver. Location is the scalar coordinate used by
// the matcher; the system does not model real geography.
type Driver struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID        *primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	DriverName    string              `json:"driver_name" bson:"driver_name" validate:"required"`
	VehicleID     string              `json:"vehicle_id" bson:"vehicle_id"`
	ContactNumber string              `json:"contact_number" bson:"contact_number"`
	Location      int64               `json:"location" bson:"location"`
	Status        DriverStatus        `json:"status" bson:"status" default:"not_available"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}

// DriverDetails is the rider-facing view of an assigned driver.
type DriverDetails struct {
	DriverName         string `json:"driver_name"`
	VehicleID          string `json:"vehicle_id"`
	ContactNumber      string `json:"contact_number"`
	DistanceFromPickup int64  `json:"distance_from_pickup"`
}
