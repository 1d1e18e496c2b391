package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
	"uberfriends/internal/repositories/interfaces"
	"uberfriends/pkg/logger"
)

type DriverService interface {
	// GoOnline flips the caller's driver record back to available. Repeating
	// it is a no-op success; changed reports whether this call did the flip.
	GoOnline(ctx context.Context, userID primitive.ObjectID) (driver *models.Driver, changed bool, err error)
}

type driverService struct {
	driverRepo interfaces.DriverRepository
	log        *logger.Logger
}

func NewDriverService(driverRepo interfaces.DriverRepository, log *logger.Logger) DriverService {
	return &driverService{
		driverRepo: driverRepo,
		log:        log,
	}
}

func (s *driverService) GoOnline(ctx context.Context, userID primitive.ObjectID) (*models.Driver, bool, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	changed, err := s.driverRepo.SetAvailable(ctx, driver.ID)
	if err != nil {
		return nil, false, err
	}

	if changed {
		s.log.WithField("driver_id", driver.ID.Hex()).Info("Driver back online")
		driver.Status = models.DriverStatusAvailable
	}

	return driver, changed, nil
}
