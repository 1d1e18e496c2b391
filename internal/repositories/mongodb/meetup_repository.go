package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"uberfriends/internal/domain"
	"uberfriends/internal/models"
	"uberfriends/internal/repositories/interfaces"
	"uberfriends/pkg/database"
)

type meetupRepository struct {
	db      *database.MongoDB
	meetups *mongo.Collection
	invites *mongo.Collection
}

// NewMeetupRepository takes the database wrapper rather than a bare
// *mongo.Database because meetup creation needs a session transaction.
func NewMeetupRepository(db *database.MongoDB) interfaces.MeetupRepository {
	return &meetupRepository{
		db:      db,
		meetups: db.Collection("meetups"),
		invites: db.Collection("meetup_invites"),
	}
}

func (r *meetupRepository) CreateWithInvites(ctx context.Context, meetup *models.Meetup, invites []*models.MeetupInvite) error {
	now := time.Now()
	meetup.ID = primitive.NewObjectID()
	meetup.Status = models.MeetupStatusPending
	meetup.CreatedAt = now
	meetup.UpdatedAt = now

	docs := make([]interface{}, 0, len(invites))
	for _, invite := range invites {
		invite.ID = primitive.NewObjectID()
		invite.MeetupID = meetup.ID
		invite.Status = models.InviteStatusPending
		invite.CreatedAt = now
		invite.UpdatedAt = now
		docs = append(docs, invite)
	}

	_, err := r.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.meetups.InsertOne(sessCtx, meetup); err != nil {
			return nil, err
		}
		if _, err := r.invites.InsertMany(sessCtx, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return domain.StorageError{Op: "create meetup with invites", Err: err}
	}

	return nil
}

func (r *meetupRepository) GetMeetup(ctx context.Context, id primitive.ObjectID) (*models.Meetup, error) {
	var meetup models.Meetup
	err := r.meetups.FindOne(ctx, bson.M{"_id": id}).Decode(&meetup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "meetup"}
		}
		return nil, domain.StorageError{Op: "get meetup", Err: err}
	}

	return &meetup, nil
}

func (r *meetupRepository) GetInvite(ctx context.Context, id primitive.ObjectID) (*models.MeetupInvite, error) {
	var invite models.MeetupInvite
	err := r.invites.FindOne(ctx, bson.M{"_id": id}).Decode(&invite)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "invite"}
		}
		return nil, domain.StorageError{Op: "get invite", Err: err}
	}

	return &invite, nil
}

func (r *meetupRepository) ListPendingInvitesByInvitee(ctx context.Context, inviteeID primitive.ObjectID) ([]*models.MeetupInvite, error) {
	cursor, err := r.invites.Find(ctx, bson.M{
		"invitee_id": inviteeID,
		"status":     models.InviteStatusPending,
	})
	if err != nil {
		return nil, domain.StorageError{Op: "list pending invites", Err: err}
	}
	defer cursor.Close(ctx)

	var invites []*models.MeetupInvite
	if err := cursor.All(ctx, &invites); err != nil {
		return nil, domain.StorageError{Op: "decode invites", Err: err}
	}

	return invites, nil
}

// The invite transitions below are conditional on status still being pending,
// so a repeat response can never overwrite the first one.
func (r *meetupRepository) MarkInviteAccepted(ctx context.Context, inviteID primitive.ObjectID, sourceLocation int64) (bool, error) {
	result, err := r.invites.UpdateOne(
		ctx,
		bson.M{"_id": inviteID, "status": models.InviteStatusPending},
		bson.M{"$set": bson.M{
			"status":                  models.InviteStatusAccepted,
			"invitee_source_location": sourceLocation,
			"updated_at":              time.Now(),
		}},
	)
	if err != nil {
		return false, domain.StorageError{Op: "accept invite", Err: err}
	}

	return result.ModifiedCount == 1, nil
}

func (r *meetupRepository) MarkInviteRejected(ctx context.Context, inviteID primitive.ObjectID) (bool, error) {
	result, err := r.invites.UpdateOne(
		ctx,
		bson.M{"_id": inviteID, "status": models.InviteStatusPending},
		bson.M{"$set": bson.M{
			"status":     models.InviteStatusRejected,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return false, domain.StorageError{Op: "reject invite", Err: err}
	}

	return result.ModifiedCount == 1, nil
}

func (r *meetupRepository) ReopenInvite(ctx context.Context, inviteID primitive.ObjectID) error {
	_, err := r.invites.UpdateOne(
		ctx,
		bson.M{"_id": inviteID, "status": models.InviteStatusAccepted},
		bson.M{
			"$set":   bson.M{"status": models.InviteStatusPending, "updated_at": time.Now()},
			"$unset": bson.M{"invitee_source_location": ""},
		},
	)
	if err != nil {
		return domain.StorageError{Op: "reopen invite", Err: err}
	}

	return nil
}

func (r *meetupRepository) ResolveMeetup(ctx context.Context, meetupID primitive.ObjectID) error {
	_, err := r.meetups.UpdateOne(
		ctx,
		bson.M{"_id": meetupID},
		bson.M{"$set": bson.M{"status": models.MeetupStatusResolved, "updated_at": time.Now()}},
	)
	if err != nil {
		return domain.StorageError{Op: "resolve meetup", Err: err}
	}

	return nil
}

func (r *meetupRepository) CancelPendingInvites(ctx context.Context, meetupID primitive.ObjectID) error {
	_, err := r.invites.UpdateMany(
		ctx,
		bson.M{"meetup_id": meetupID, "status": models.InviteStatusPending},
		bson.M{"$set": bson.M{"status": models.InviteStatusCancelled, "updated_at": time.Now()}},
	)
	if err != nil {
		return domain.StorageError{Op: "cancel pending invites", Err: err}
	}

	return nil
}
