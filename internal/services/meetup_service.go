package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/domain"
	"uberfriends/internal/models"
	"uberfriends/internal/repositories/interfaces"
	"uberfriends/pkg/logger"
)

// PendingInviteView joins an invite with the meetup and organizer details the
// invitee needs to decide on it.
type PendingInviteView struct {
	InviteID       string    `json:"invite_id"`
	MeetupID       string    `json:"meetup_id"`
	MeetupLocation int64     `json:"meetup_location"`
	OrganizerName  string    `json:"organizer_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// InviteResponseResult reports the recorded response. Booking is set only
// when the invite was accepted and carries the dispatch outcome for the ride
// to the meetup point.
type InviteResponseResult struct {
	InviteID string         `json:"invite_id"`
	Status   string         `json:"status"`
	Booking  *BookingResult `json:"booking,omitempty"`
}

type MeetupService interface {
	Create(ctx context.Context, organizerID primitive.ObjectID, meetupLocation int64, inviteeEmails []string) (*models.Meetup, int, error)
	PendingInvites(ctx context.Context, inviteeID primitive.ObjectID) ([]*PendingInviteView, error)
	Respond(ctx context.Context, userID, inviteID primitive.ObjectID, response string, sourceLocation *int64) (*InviteResponseResult, error)
}

type meetupService struct {
	meetupRepo interfaces.MeetupRepository
	userRepo   interfaces.UserRepository
	dispatch   DispatchService
	notifier   Notifier
	autoClose  bool
	log        *logger.Logger
}

func NewMeetupService(
	meetupRepo interfaces.MeetupRepository,
	userRepo interfaces.UserRepository,
	dispatch DispatchService,
	notifier Notifier,
	autoClose bool,
	log *logger.Logger,
) MeetupService {
	return &meetupService{
		meetupRepo: meetupRepo,
		userRepo:   userRepo,
		dispatch:   dispatch,
		notifier:   notifier,
		autoClose:  autoClose,
		log:        log,
	}
}

// Create resolves invitee emails to accounts, persists the meetup and its
// invites in one transaction, then fans out invite events. Unknown emails
// are skipped; the returned count tells the organizer how many invites went
// out. The organizer cannot invite themselves.
func (s *meetupService) Create(ctx context.Context, organizerID primitive.ObjectID, meetupLocation int64, inviteeEmails []string) (*models.Meetup, int, error) {
	organizer, err := s.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, 0, err
	}

	resolved, err := s.userRepo.FindByEmails(ctx, inviteeEmails)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[primitive.ObjectID]bool, len(resolved))
	invitees := make([]*models.User, 0, len(resolved))
	for _, user := range resolved {
		if user.ID == organizerID || seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		invitees = append(invitees, user)
	}

	if len(invitees) == 0 {
		return nil, 0, domain.ValidationError{Field: "invitee_emails", Msg: "no invitees matched a registered account"}
	}

	meetup := &models.Meetup{
		OrganizerID:    organizerID,
		MeetupLocation: meetupLocation,
	}
	invites := make([]*models.MeetupInvite, 0, len(invitees))
	for _, invitee := range invitees {
		invites = append(invites, &models.MeetupInvite{InviteeID: invitee.ID})
	}

	if err := s.meetupRepo.CreateWithInvites(ctx, meetup, invites); err != nil {
		return nil, 0, err
	}

	s.log.LogMeetupEvent(meetup.ID, "meetup_created", map[string]interface{}{
		"organizer_id": organizerID.Hex(),
		"invites":      len(invites),
	})

	event := models.NewMeetupInviteEvent{
		Type:          models.EventNewMeetupInvite,
		Message:       fmt.Sprintf("%s invited you to a meetup", organizer.Name),
		MeetupID:      meetup.ID.Hex(),
		OrganizerName: organizer.Name,
	}
	for _, invitee := range invitees {
		key := models.RiderActorKey(invitee.ID)
		if err := s.notifier.Send(key, event); err != nil {
			s.log.WithActorKey(key).Debug("Invitee not connected, invite event dropped")
		}
	}

	return meetup, len(invites), nil
}

func (s *meetupService) PendingInvites(ctx context.Context, inviteeID primitive.ObjectID) ([]*PendingInviteView, error) {
	invites, err := s.meetupRepo.ListPendingInvitesByInvitee(ctx, inviteeID)
	if err != nil {
		return nil, err
	}

	views := make([]*PendingInviteView, 0, len(invites))
	for _, invite := range invites {
		view := &PendingInviteView{
			InviteID:  invite.ID.Hex(),
			MeetupID:  invite.MeetupID.Hex(),
			CreatedAt: invite.CreatedAt,
		}

		meetup, err := s.meetupRepo.GetMeetup(ctx, invite.MeetupID)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		view.MeetupLocation = meetup.MeetupLocation

		if organizer, err := s.userRepo.GetByID(ctx, meetup.OrganizerID); err == nil {
			view.OrganizerName = organizer.Name
		}

		views = append(views, view)
	}

	return views, nil
}

// Respond records a one-shot response to an invite. An accept claims the
// invite first, then books a ride from the invitee's location to the meetup
// point; if booking fails outright the invite is reopened so the invitee can
// try again. A booking that merely waits for a driver still counts as
// accepted.
func (s *meetupService) Respond(ctx context.Context, userID, inviteID primitive.ObjectID, response string, sourceLocation *int64) (*InviteResponseResult, error) {
	invite, err := s.meetupRepo.GetInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}

	if invite.InviteeID != userID {
		return nil, domain.AuthorizationError{Msg: "only the invited user may respond to this invite"}
	}

	switch response {
	case string(models.InviteStatusRejected):
		return s.reject(ctx, invite)
	case string(models.InviteStatusAccepted):
		if sourceLocation == nil {
			return nil, domain.ValidationError{Field: "source_location", Msg: "required when accepting an invite"}
		}
		return s.accept(ctx, invite, *sourceLocation)
	default:
		return nil, domain.ValidationError{Field: "response", Msg: "must be accepted or rejected"}
	}
}

func (s *meetupService) reject(ctx context.Context, invite *models.MeetupInvite) (*InviteResponseResult, error) {
	transitioned, err := s.meetupRepo.MarkInviteRejected(ctx, invite.ID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, domain.ConflictError{Resource: "invite", Msg: "invite has already been responded to"}
	}

	s.log.LogMeetupEvent(invite.MeetupID, "invite_rejected", map[string]interface{}{
		"invite_id": invite.ID.Hex(),
	})

	return &InviteResponseResult{
		InviteID: invite.ID.Hex(),
		Status:   string(models.InviteStatusRejected),
	}, nil
}

func (s *meetupService) accept(ctx context.Context, invite *models.MeetupInvite, sourceLocation int64) (*InviteResponseResult, error) {
	transitioned, err := s.meetupRepo.MarkInviteAccepted(ctx, invite.ID, sourceLocation)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, domain.ConflictError{Resource: "invite", Msg: "invite has already been responded to"}
	}

	meetup, err := s.meetupRepo.GetMeetup(ctx, invite.MeetupID)
	if err != nil {
		s.reopen(ctx, invite.ID)
		return nil, err
	}

	booking, err := s.dispatch.Book(ctx, invite.InviteeID, sourceLocation, meetup.MeetupLocation)
	if err != nil {
		s.reopen(ctx, invite.ID)
		return nil, err
	}

	s.log.LogMeetupEvent(invite.MeetupID, "invite_accepted", map[string]interface{}{
		"invite_id": invite.ID.Hex(),
		"ride_id":   booking.RideID,
	})

	if err := s.meetupRepo.ResolveMeetup(ctx, meetup.ID); err != nil {
		// The ride is already booked; resolution is advisory.
		s.log.WithError(err).WithField("meetup_id", meetup.ID.Hex()).Warn("Failed to mark meetup resolved")
	}

	if s.autoClose {
		if err := s.meetupRepo.CancelPendingInvites(ctx, meetup.ID); err != nil {
			s.log.WithError(err).WithField("meetup_id", meetup.ID.Hex()).Warn("Failed to cancel remaining invites")
		}
	}

	return &InviteResponseResult{
		InviteID: invite.ID.Hex(),
		Status:   string(models.InviteStatusAccepted),
		Booking:  booking,
	}, nil
}

func (s *meetupService) reopen(ctx context.Context, inviteID primitive.ObjectID) {
	if err := s.meetupRepo.ReopenInvite(ctx, inviteID); err != nil {
		s.log.WithError(err).WithField("invite_id", inviteID.Hex()).Error("Failed to reopen invite after booking failure")
	}
}
