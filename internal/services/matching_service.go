package services

import (
	"bytes"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/models"
)

// DistanceFunc scores how far a driver is from a pickup. Locations are
// scalar coordinates; any monotone metric works as long as the tie-break
// below keeps selection deterministic.
type DistanceFunc func(driverLocation, pickupLocation int64) int64

// AbsoluteDistance is the default metric: one-dimensional absolute
// difference.
func AbsoluteDistance(driverLocation, pickupLocation int64) int64 {
	d := driverLocation - pickupLocation
	if d < 0 {
		return -d
	}
	return d
}

// MatchingService selects the best candidate from a snapshot of available
// drivers. Pure: it never mutates anything, so callers are free to call it
// speculatively and discard the result.
type MatchingService interface {
	Closest(pickupLocation int64, drivers []*models.Driver) *models.Driver
	Distance(driverLocation, pickupLocation int64) int64
}

type matchingService struct {
	distance DistanceFunc
}

func NewMatchingService(distance DistanceFunc) MatchingService {
	if distance == nil {
		distance = AbsoluteDistance
	}
	return &matchingService{distance: distance}
}

func (s *matchingService) Distance(driverLocation, pickupLocation int64) int64 {
	return s.distance(driverLocation, pickupLocation)
}

// Closest returns the driver minimizing the distance metric, or nil when the
// snapshot is empty. Equal distances break to the lowest driver id, so the
// result does not depend on snapshot order.
func (s *matchingService) Closest(pickupLocation int64, drivers []*models.Driver) *models.Driver {
	var best *models.Driver
	var bestDistance int64

	for _, driver := range drivers {
		distance := s.distance(driver.Location, pickupLocation)
		switch {
		case best == nil:
			best, bestDistance = driver, distance
		case distance < bestDistance:
			best, bestDistance = driver, distance
		case distance == bestDistance && lowerID(driver.ID, best.ID):
			best = driver
		}
	}

	return best
}

func lowerID(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
