package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
	"uberfriends/internal/utils"
)

func newDispatchFixture() (*fakeDriverRepo, *fakeRideRepo, *fakeUserRepo, *recordingNotifier, DispatchService) {
	driverRepo := newFakeDriverRepo()
	rideRepo := newFakeRideRepo()
	userRepo := newFakeUserRepo()
	notifier := newRecordingNotifier()
	svc := NewDispatchService(driverRepo, rideRepo, userRepo, NewMatchingService(nil), notifier, 3, testLogger())
	return driverRepo, rideRepo, userRepo, notifier, svc
}

func TestBookAssignsClosestDriver(t *testing.T) {
	driverRepo, rideRepo, userRepo, _, svc := newDispatchFixture()

	rider := userRepo.add(&models.User{Name: "Asha", Email: "asha@example.com"})
	driverRepo.add(&models.Driver{DriverName: "Far", Location: 90})
	near := driverRepo.add(&models.Driver{DriverName: "Near", VehicleID: "KA-01", Location: 12})

	result, err := svc.Book(context.Background(), rider.ID, 10, 50)
	require.NoError(t, err)
	assert.Equal(t, utils.BookingStatusDriverAssigned, result.Status)
	require.NotNil(t, result.Driver)
	assert.Equal(t, "Near", result.Driver.DriverName)
	assert.Equal(t, int64(2), result.Driver.DistanceFromPickup)

	assert.Equal(t, models.DriverStatusNotAvailable, driverRepo.status(near.ID))

	rideID, err := primitive.ObjectIDFromHex(result.RideID)
	require.NoError(t, err)
	ride, err := rideRepo.GetByID(context.Background(), rideID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusAssigned, ride.Status)
	require.NotNil(t, ride.AssignedDriverID)
	assert.Equal(t, near.ID, *ride.AssignedDriverID)
}

func TestBookWithNoDriversQueuesRide(t *testing.T) {
	_, rideRepo, userRepo, _, svc := newDispatchFixture()

	rider := userRepo.add(&models.User{Name: "Asha", Email: "asha@example.com"})

	result, err := svc.Book(context.Background(), rider.ID, 10, 50)
	require.NoError(t, err)
	assert.Equal(t, utils.BookingStatusWaiting, result.Status)
	assert.Nil(t, result.Driver)

	// The ride exists and stays pending for later assignment.
	rideID, err := primitive.ObjectIDFromHex(result.RideID)
	require.NoError(t, err)
	ride, err := rideRepo.GetByID(context.Background(), rideID)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusPending, ride.Status)
}

func TestConcurrentBookingsOneDriverExactlyOneWins(t *testing.T) {
	driverRepo, _, userRepo, _, svc := newDispatchFixture()

	driverRepo.add(&models.Driver{DriverName: "Solo", Location: 5})

	const riders = 16
	results := make([]*BookingResult, riders)
	var wg sync.WaitGroup
	for i := 0; i < riders; i++ {
		rider := userRepo.add(&models.User{Name: "Rider", Email: primitive.NewObjectID().Hex() + "@example.com"})
		wg.Add(1)
		go func(i int, riderID primitive.ObjectID) {
			defer wg.Done()
			result, err := svc.Book(context.Background(), riderID, 5, 50)
			assert.NoError(t, err)
			results[i] = result
		}(i, rider.ID)
	}
	wg.Wait()

	assigned := 0
	for _, result := range results {
		require.NotNil(t, result)
		if result.Status == utils.BookingStatusDriverAssigned {
			assigned++
		} else {
			assert.Equal(t, utils.BookingStatusWaiting, result.Status)
		}
	}
	assert.Equal(t, 1, assigned, "exactly one booking should win the only driver")
}

func TestAssignReleasesDriverWhenRideBindingFails(t *testing.T) {
	driverRepo, rideRepo, userRepo, _, svc := newDispatchFixture()

	rider := userRepo.add(&models.User{Name: "Asha", Email: "asha@example.com"})
	driver := driverRepo.add(&models.Driver{DriverName: "Near", Location: 10})
	rideRepo.assignErr = errors.New("write failed")

	_, err := svc.Book(context.Background(), rider.ID, 10, 50)
	require.Error(t, err)

	// The claimed driver must be returned to the pool.
	assert.Equal(t, models.DriverStatusAvailable, driverRepo.status(driver.ID))
}

func TestAssignNotifiesBothParties(t *testing.T) {
	driverRepo, _, userRepo, notifier, svc := newDispatchFixture()

	rider := userRepo.add(&models.User{Name: "Asha", Email: "asha@example.com"})
	driver := driverRepo.add(&models.Driver{DriverName: "Near", VehicleID: "KA-01", Location: 12})

	_, err := svc.Book(context.Background(), rider.ID, 10, 50)
	require.NoError(t, err)

	riderEvents := notifier.eventsFor(models.RiderActorKey(rider.ID))
	require.Len(t, riderEvents, 1)
	riderEvent, ok := riderEvents[0].(models.RideAssignedEvent)
	require.True(t, ok)
	assert.Equal(t, models.EventRideAssigned, riderEvent.Type)
	assert.Equal(t, "Near", riderEvent.Driver.DriverName)

	driverEvents := notifier.eventsFor(models.DriverActorKey(driver.ID))
	require.Len(t, driverEvents, 1)
	driverEvent, ok := driverEvents[0].(models.NewRideAssignedEvent)
	require.True(t, ok)
	assert.Equal(t, models.EventNewRideAssigned, driverEvent.Type)
	assert.Equal(t, "Asha", driverEvent.Client.Name)
	assert.Equal(t, int64(10), driverEvent.Ride.SourceLocation)
	assert.Equal(t, int64(50), driverEvent.Ride.DestLocation)
}

func TestAssignSucceedsWhenNobodyConnected(t *testing.T) {
	driverRepo, _, userRepo, notifier, svc := newDispatchFixture()

	// Mark an unrelated key connected so the notifier rejects everyone else.
	notifier.connect("rider:nobody")

	rider := userRepo.add(&models.User{Name: "Asha", Email: "asha@example.com"})
	driverRepo.add(&models.Driver{DriverName: "Near", Location: 12})

	result, err := svc.Book(context.Background(), rider.ID, 10, 50)
	require.NoError(t, err)
	assert.Equal(t, utils.BookingStatusDriverAssigned, result.Status)
}

func TestHistoryJoinsDriverDetails(t *testing.T) {
	driverRepo, _, userRepo, _, svc := newDispatchFixture()

	rider := userRepo.add(&models.User{Name: "Asha", Email: "asha@example.com"})
	driverRepo.add(&models.Driver{DriverName: "Near", VehicleID: "KA-01", Location: 12})

	_, err := svc.Book(context.Background(), rider.ID, 10, 50)
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), rider.ID, 20, 60)
	require.NoError(t, err)

	entries, err := svc.History(context.Background(), rider.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var assigned, waiting int
	for _, entry := range entries {
		switch entry.Status {
		case models.RideStatusAssigned:
			assigned++
			assert.Equal(t, "Near", entry.DriverName)
			assert.Equal(t, "KA-01", entry.VehicleID)
		case models.RideStatusPending:
			waiting++
			assert.Empty(t, entry.DriverName)
		}
	}
	assert.Equal(t, 1, assigned)
	assert.Equal(t, 1, waiting)
}
