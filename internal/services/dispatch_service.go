package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
	"uberfriends/internal/repositories/interfaces"
	"uberfriends/internal/utils"
	"uberfriends/pkg/logger"
)

// BookingResult is the caller-visible outcome of a booking: either a driver
// was committed or the request is queued waiting for one. Waiting is a
// domain outcome, not an error.
type BookingResult struct {
	RideID string                `json:"ride_id"`
	Status string                `json:"status"`
	Driver *models.DriverDetails `json:"driver_details,omitempty"`
}

type DispatchService interface {
	// Book creates a pending ride request and immediately tries to assign
	// a driver. Shared by direct bookings and meetup invite acceptance.
	Book(ctx context.Context, riderID primitive.ObjectID, sourceLocation, destLocation int64) (*BookingResult, error)

	// Assign tries to commit a driver to an existing pending ride.
	Assign(ctx context.Context, ride *models.RideRequest) (*BookingResult, error)

	// History returns the rider's rides joined with driver details.
	History(ctx context.Context, userID primitive.ObjectID) ([]*models.RideHistoryEntry, error)
}

type dispatchService struct {
	driverRepo  interfaces.DriverRepository
	rideRepo    interfaces.RideRepository
	userRepo    interfaces.UserRepository
	matcher     MatchingService
	notifier    Notifier
	maxAttempts int
	log         *logger.Logger
}

func NewDispatchService(
	driverRepo interfaces.DriverRepository,
	rideRepo interfaces.RideRepository,
	userRepo interfaces.UserRepository,
	matcher MatchingService,
	notifier Notifier,
	maxAttempts int,
	log *logger.Logger,
) DispatchService {
	if maxAttempts <= 0 {
		maxAttempts = utils.DefaultMaxAssignAttempts
	}
	return &dispatchService{
		driverRepo:  driverRepo,
		rideRepo:    rideRepo,
		userRepo:    userRepo,
		matcher:     matcher,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

func (s *dispatchService) Book(ctx context.Context, riderID primitive.ObjectID, sourceLocation, destLocation int64) (*BookingResult, error) {
	ride := &models.RideRequest{
		UserID:         riderID,
		SourceLocation: sourceLocation,
		DestLocation:   destLocation,
		Status:         models.RideStatusPending,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return s.Assign(ctx, ride)
}

// Assign separates matching (read-only) from committing. The commit is the
// driver repository's conditional claim; losing it means another booking won
// the same driver, so we retry against a fresh snapshot up to maxAttempts
// before reporting the ride as waiting.
func (s *dispatchService) Assign(ctx context.Context, ride *models.RideRequest) (*BookingResult, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		drivers, err := s.driverRepo.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}

		candidate := s.matcher.Closest(ride.SourceLocation, drivers)
		if candidate == nil {
			return s.waiting(ride), nil
		}

		claimed, err := s.driverRepo.ClaimAvailable(ctx, candidate.ID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			// Lost the claim to a concurrent booking.
			s.log.WithRideID(ride.ID).WithField("attempt", attempt).Debug("Driver claim lost, retrying with fresh snapshot")
			continue
		}

		if err := s.rideRepo.AssignDriver(ctx, ride.ID, candidate.ID); err != nil {
			if releaseErr := s.driverRepo.Release(ctx, candidate.ID); releaseErr != nil {
				s.log.WithError(releaseErr).WithField("driver_id", candidate.ID.Hex()).Error("Failed to release driver after aborted assignment")
			}
			return nil, err
		}

		details := &models.DriverDetails{
			DriverName:         candidate.DriverName,
			VehicleID:          candidate.VehicleID,
			ContactNumber:      candidate.ContactNumber,
			DistanceFromPickup: s.matcher.Distance(candidate.Location, ride.SourceLocation),
		}

		s.log.LogRideEvent(ride.ID, "driver_assigned", map[string]interface{}{
			"driver_id": candidate.ID.Hex(),
			"distance":  details.DistanceFromPickup,
		})

		s.notifyAssignment(ctx, ride, candidate, details)

		return &BookingResult{
			RideID: ride.ID.Hex(),
			Status: utils.BookingStatusDriverAssigned,
			Driver: details,
		}, nil
	}

	s.log.WithRideID(ride.ID).Info("Assignment attempts exhausted, ride stays pending")
	return s.waiting(ride), nil
}

func (s *dispatchService) waiting(ride *models.RideRequest) *BookingResult {
	return &BookingResult{
		RideID: ride.ID.Hex(),
		Status: utils.BookingStatusWaiting,
	}
}

// notifyAssignment pushes events to both parties. Assignment durability and
// notification delivery are decoupled: a disconnected actor just misses the
// event.
func (s *dispatchService) notifyAssignment(ctx context.Context, ride *models.RideRequest, driver *models.Driver, details *models.DriverDetails) {
	riderKey := models.RiderActorKey(ride.UserID)
	if err := s.notifier.Send(riderKey, models.RideAssignedEvent{
		Type:   models.EventRideAssigned,
		RideID: ride.ID.Hex(),
		Driver: *details,
	}); err != nil {
		s.log.WithActorKey(riderKey).Debug("Rider not connected, assignment event dropped")
	}

	client := models.ClientDetails{UserID: ride.UserID.Hex()}
	if rider, err := s.userRepo.GetByID(ctx, ride.UserID); err == nil {
		client.Name = rider.Name
	}

	driverKey := models.DriverActorKey(driver.ID)
	if err := s.notifier.Send(driverKey, models.NewRideAssignedEvent{
		Type:   models.EventNewRideAssigned,
		Client: client,
		Ride: models.RideDetails{
			RideID:         ride.ID.Hex(),
			SourceLocation: ride.SourceLocation,
			DestLocation:   ride.DestLocation,
		},
	}); err != nil {
		s.log.WithActorKey(driverKey).Debug("Driver not connected, assignment event dropped")
	}
}

func (s *dispatchService) History(ctx context.Context, userID primitive.ObjectID) ([]*models.RideHistoryEntry, error) {
	rides, err := s.rideRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.RideHistoryEntry, 0, len(rides))
	for _, ride := range rides {
		entry := &models.RideHistoryEntry{
			RideID:         ride.ID,
			SourceLocation: ride.SourceLocation,
			DestLocation:   ride.DestLocation,
			Status:         ride.Status,
			CreatedAt:      ride.CreatedAt,
		}
		if ride.AssignedDriverID != nil {
			if driver, err := s.driverRepo.GetByID(ctx, *ride.AssignedDriverID); err == nil {
				entry.DriverName = driver.DriverName
				entry.VehicleID = driver.VehicleID
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
