package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification events are tagged unions: receivers dispatch on Type.
const (
	EventRideAssigned    = "ride_assigned"
	EventNewRideAssigned = "new_ride_assigned"
	EventNewMeetupInvite = "new_meetup_invite"
)

// RideAssignedEvent is pushed to the rider when a driver commits.
type RideAssignedEvent struct {
	Type   string        `json:"type"`
	RideID string        `json:"ride_id"`
	Driver DriverDetails `json:"driver"`
}

// NewRideAssignedEvent is pushed to the driver who won the assignment.
type NewRideAssignedEvent struct {
	Type   string        `json:"type"`
	Client ClientDetails `json:"client"`
	Ride   RideDetails   `json:"ride"`
}

type NewMeetupInviteEvent struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	MeetupID      string `json:"meetup_id"`
	OrganizerName string `json:"organizer_name"`
}

type ClientDetails struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type RideDetails struct {
	RideID         string `json:"ride_id"`
	SourceLocation int64  `json:"source_location"`
	DestLocation   int64  `json:"dest_location"`
}

// Actor keys identify a live session for notification routing, distinct from
// the durable identity they are derived from.
func RiderActorKey(id primitive.ObjectID) string  { return "rider:" + id.Hex() }
func DriverActorKey(id primitive.ObjectID) string { return "driver:" + id.Hex() }
