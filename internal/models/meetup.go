package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MeetupStatus string

const (
	MeetupStatusPending  MeetupStatus = "pending"
	MeetupStatusResolved MeetupStatus = "resolved"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
	// InviteStatusCancelled is only reached when meetup auto-close is
	// enabled and another invitee accepted first.
	InviteStatusCancelled InviteStatus = "cancelled"
)

type Meetup struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizerID    primitive.ObjectID `json:"organizer_id" bson:"organizer_id" validate:"required"`
	MeetupLocation int64              `json:"meetup_location" bson:"meetup_location"`
	Status         MeetupStatus       `json:"status" bson:"status" default:"pending"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// MeetupInvite transitions out of pending exactly once. The invitee's source
// location is recorded only on acceptance.
type MeetupInvite struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MeetupID              primitive.ObjectID `json:"meetup_id" bson:"meetup_id" validate:"required"`
	InviteeID             primitive.ObjectID `json:"invitee_id" bson:"invitee_id" validate:"required"`
	Status                InviteStatus       `json:"status" bson:"status" default:"pending"`
	InviteeSourceLocation *int64             `json:"invitee_source_location,omitempty" bson:"invitee_source_location,omitempty"`
	CreatedAt             time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at" bson:"updated_at"`
}
