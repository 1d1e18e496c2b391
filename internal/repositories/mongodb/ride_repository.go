package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"uberfriends/internal/domain"
	"uberfriends/internal/models"
	"uberfriends/internal/repositories/interfaces"
)

type rideRepository struct {
	collection *mongo.Collection
}

func NewRideRepository(db *mongo.Database) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("ride_requests"),
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.RideRequest) error {
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()
	if ride.Status == "" {
		ride.Status = models.RideStatusPending
	}

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return domain.StorageError{Op: "create ride request", Err: err}
	}

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	var ride models.RideRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "ride request"}
		}
		return nil, domain.StorageError{Op: "get ride request", Err: err}
	}

	return &ride, nil
}

func (r *rideRepository) AssignDriver(ctx context.Context, rideID, driverID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": rideID},
		bson.M{"$set": bson.M{
			"status":             models.RideStatusAssigned,
			"assigned_driver_id": driverID,
			"updated_at":         time.Now(),
		}},
	)
	if err != nil {
		return domain.StorageError{Op: "assign driver to ride", Err: err}
	}
	if result.MatchedCount == 0 {
		return domain.NotFoundError{Resource: "ride request"}
	}

	return nil
}

func (r *rideRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, domain.StorageError{Op: "list rides by user", Err: err}
	}
	defer cursor.Close(ctx)

	var rides []*models.RideRequest
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, domain.StorageError{Op: "decode rides", Err: err}
	}

	return rides, nil
}
