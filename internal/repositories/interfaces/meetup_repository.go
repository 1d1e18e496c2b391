package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
)

type MeetupRepository interface {
	// CreateWithInvites writes the meetup and all its invites in one
	// transaction; any failure leaves neither behind.
	CreateWithInvites(ctx context.Context, meetup *models.Meetup, invites []*models.MeetupInvite) error

	GetMeetup(ctx context.Context, id primitive.ObjectID) (*models.Meetup, error)
	GetInvite(ctx context.Context, id primitive.ObjectID) (*models.MeetupInvite, error)
	ListPendingInvitesByInvitee(ctx context.Context, inviteeID primitive.ObjectID) ([]*models.MeetupInvite, error)

	// MarkInviteAccepted/MarkInviteRejected transition the invite out of
	// pending with a conditional write. Returns false when the invite had
	// already left pending, leaving it untouched.
	MarkInviteAccepted(ctx context.Context, inviteID primitive.ObjectID, sourceLocation int64) (bool, error)
	MarkInviteRejected(ctx context.Context, inviteID primitive.ObjectID) (bool, error)

	// ReopenInvite reverts an accepted invite back to pending. Compensating
	// rollback for a failed ride creation after acceptance.
	ReopenInvite(ctx context.Context, inviteID primitive.ObjectID) error

	ResolveMeetup(ctx context.Context, meetupID primitive.ObjectID) error

	// CancelPendingInvites cancels the meetup's remaining pending invites.
	// Only used when auto-close is configured.
	CancelPendingInvites(ctx context.Context, meetupID primitive.ObjectID) error
}
