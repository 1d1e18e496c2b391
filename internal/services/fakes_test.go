package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/domain"
	"uberfriends/internal/models"
	"uberfriends/pkg/logger"
)

func testLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stdout"})
	if err != nil {
		panic(err)
	}
	return log
}

// fakeDriverRepo is an in-memory driver store with the same conditional
// claim semantics as the real one. Safe for concurrent use so assignment
// races can be exercised directly.
type fakeDriverRepo struct {
	mu      sync.Mutex
	drivers map[primitive.ObjectID]*models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[primitive.ObjectID]*models.Driver)}
}

func (f *fakeDriverRepo) add(driver *models.Driver) *models.Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	if driver.Status == "" {
		driver.Status = models.DriverStatusAvailable
	}
	f.drivers[driver.ID] = driver
	return driver
}

func (f *fakeDriverRepo) Create(ctx context.Context, driver *models.Driver) error {
	f.add(driver)
	return nil
}

func (f *fakeDriverRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "driver"}
	}
	copied := *driver
	return &copied, nil
}

func (f *fakeDriverRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, driver := range f.drivers {
		if driver.UserID != nil && *driver.UserID == userID {
			copied := *driver
			return &copied, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "driver"}
}

func (f *fakeDriverRepo) ListAvailable(ctx context.Context) ([]*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Driver
	for _, driver := range f.drivers {
		if driver.Status == models.DriverStatusAvailable {
			copied := *driver
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeDriverRepo) ClaimAvailable(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[id]
	if !ok || driver.Status != models.DriverStatusAvailable {
		return false, nil
	}
	driver.Status = models.DriverStatusNotAvailable
	return true, nil
}

func (f *fakeDriverRepo) Release(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[id]
	if !ok {
		return domain.NotFoundError{Resource: "driver"}
	}
	driver.Status = models.DriverStatusAvailable
	return nil
}

func (f *fakeDriverRepo) SetAvailable(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[id]
	if !ok {
		return false, domain.NotFoundError{Resource: "driver"}
	}
	if driver.Status == models.DriverStatusAvailable {
		return false, nil
	}
	driver.Status = models.DriverStatusAvailable
	return true, nil
}

func (f *fakeDriverRepo) status(id primitive.ObjectID) models.DriverStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drivers[id].Status
}

// fakeRideRepo stores rides in memory. assignErr forces AssignDriver to fail
// so the claim rollback path can be tested.
type fakeRideRepo struct {
	mu        sync.Mutex
	rides     map[primitive.ObjectID]*models.RideRequest
	assignErr error
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: make(map[primitive.ObjectID]*models.RideRequest)}
}

func (f *fakeRideRepo) Create(ctx context.Context, ride *models.RideRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = ride.CreatedAt
	if ride.Status == "" {
		ride.Status = models.RideStatusPending
	}
	copied := *ride
	f.rides[ride.ID] = &copied
	return nil
}

func (f *fakeRideRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "ride"}
	}
	copied := *ride
	return &copied, nil
}

func (f *fakeRideRepo) AssignDriver(ctx context.Context, rideID, driverID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return f.assignErr
	}
	ride, ok := f.rides[rideID]
	if !ok {
		return domain.NotFoundError{Resource: "ride"}
	}
	ride.Status = models.RideStatusAssigned
	ride.AssignedDriverID = &driverID
	return nil
}

func (f *fakeRideRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.RideRequest
	for _, ride := range f.rides {
		if ride.UserID == userID {
			copied := *ride
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(user.Email)
	if user.UserType == "" {
		user.UserType = models.UserTypeRider
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	for _, existing := range f.users {
		if existing.Email == strings.ToLower(user.Email) {
			f.mu.Unlock()
			return domain.ConflictError{Resource: "user", Msg: "user already exists"}
		}
	}
	f.mu.Unlock()
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "user"}
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "user"}
}

func (f *fakeUserRepo) FindByEmails(ctx context.Context, emails []string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(emails))
	for _, email := range emails {
		wanted[strings.ToLower(email)] = true
	}
	var out []*models.User
	for _, user := range f.users {
		if wanted[user.Email] {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeMeetupRepo mirrors the conditional invite transitions of the real
// repository.
type fakeMeetupRepo struct {
	mu        sync.Mutex
	meetups   map[primitive.ObjectID]*models.Meetup
	invites   map[primitive.ObjectID]*models.MeetupInvite
	createErr error
}

func newFakeMeetupRepo() *fakeMeetupRepo {
	return &fakeMeetupRepo{
		meetups: make(map[primitive.ObjectID]*models.Meetup),
		invites: make(map[primitive.ObjectID]*models.MeetupInvite),
	}
}

func (f *fakeMeetupRepo) CreateWithInvites(ctx context.Context, meetup *models.Meetup, invites []*models.MeetupInvite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	meetup.ID = primitive.NewObjectID()
	meetup.Status = models.MeetupStatusPending
	meetup.CreatedAt = time.Now()
	copied := *meetup
	f.meetups[meetup.ID] = &copied
	for _, invite := range invites {
		invite.ID = primitive.NewObjectID()
		invite.MeetupID = meetup.ID
		invite.Status = models.InviteStatusPending
		invite.CreatedAt = meetup.CreatedAt
		inviteCopy := *invite
		f.invites[invite.ID] = &inviteCopy
	}
	return nil
}

func (f *fakeMeetupRepo) GetMeetup(ctx context.Context, id primitive.ObjectID) (*models.Meetup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meetup, ok := f.meetups[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "meetup"}
	}
	copied := *meetup
	return &copied, nil
}

func (f *fakeMeetupRepo) GetInvite(ctx context.Context, id primitive.ObjectID) (*models.MeetupInvite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "invite"}
	}
	copied := *invite
	return &copied, nil
}

func (f *fakeMeetupRepo) ListPendingInvitesByInvitee(ctx context.Context, inviteeID primitive.ObjectID) ([]*models.MeetupInvite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MeetupInvite
	for _, invite := range f.invites {
		if invite.InviteeID == inviteeID && invite.Status == models.InviteStatusPending {
			copied := *invite
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeMeetupRepo) MarkInviteAccepted(ctx context.Context, inviteID primitive.ObjectID, sourceLocation int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[inviteID]
	if !ok || invite.Status != models.InviteStatusPending {
		return false, nil
	}
	invite.Status = models.InviteStatusAccepted
	invite.InviteeSourceLocation = &sourceLocation
	return true, nil
}

func (f *fakeMeetupRepo) MarkInviteRejected(ctx context.Context, inviteID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[inviteID]
	if !ok || invite.Status != models.InviteStatusPending {
		return false, nil
	}
	invite.Status = models.InviteStatusRejected
	return true, nil
}

func (f *fakeMeetupRepo) ReopenInvite(ctx context.Context, inviteID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[inviteID]
	if !ok {
		return domain.NotFoundError{Resource: "invite"}
	}
	if invite.Status == models.InviteStatusAccepted {
		invite.Status = models.InviteStatusPending
		invite.InviteeSourceLocation = nil
	}
	return nil
}

func (f *fakeMeetupRepo) ResolveMeetup(ctx context.Context, meetupID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	meetup, ok := f.meetups[meetupID]
	if !ok {
		return domain.NotFoundError{Resource: "meetup"}
	}
	meetup.Status = models.MeetupStatusResolved
	return nil
}

func (f *fakeMeetupRepo) CancelPendingInvites(ctx context.Context, meetupID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, invite := range f.invites {
		if invite.MeetupID == meetupID && invite.Status == models.InviteStatusPending {
			invite.Status = models.InviteStatusCancelled
		}
	}
	return nil
}

func (f *fakeMeetupRepo) inviteStatus(id primitive.ObjectID) models.InviteStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invites[id].Status
}

// recordingNotifier captures every event routed through it, keyed by actor.
type recordingNotifier struct {
	mu        sync.Mutex
	events    map[string][]interface{}
	connected map[string]bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		events:    make(map[string][]interface{}),
		connected: make(map[string]bool),
	}
}

var errFakeNotConnected = errors.New("actor not connected")

func (n *recordingNotifier) connect(keys ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, key := range keys {
		n.connected[key] = true
	}
}

func (n *recordingNotifier) Send(actorKey string, event interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.connected) > 0 && !n.connected[actorKey] {
		return errFakeNotConnected
	}
	n.events[actorKey] = append(n.events[actorKey], event)
	return nil
}

func (n *recordingNotifier) eventsFor(actorKey string) []interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]interface{}(nil), n.events[actorKey]...)
}
