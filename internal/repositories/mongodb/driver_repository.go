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
	"uberfriends/internal/services"
	"uberfriends/internal/utils"
)

type driverRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
	cacheTTL   time.Duration
}

func NewDriverRepository(db *mongo.Database, cache services.CacheService, cacheTTL time.Duration) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection("drivers"),
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = time.Now()
	if driver.Status == "" {
		driver.Status = models.DriverStatusNotAvailable
	}

	_, err := r.collection.InsertOne(ctx, driver)
	if err != nil {
		return domain.StorageError{Op: "create driver", Err: err}
	}

	r.cacheDriver(ctx, driver)

	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	if driver := r.driverFromCache(ctx, id.Hex()); driver != nil {
		return driver, nil
	}

	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "driver"}
		}
		return nil, domain.StorageError{Op: "get driver", Err: err}
	}

	r.cacheDriver(ctx, &driver)

	return &driver, nil
}

func (r *driverRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "driver"}
		}
		return nil, domain.StorageError{Op: "get driver by user", Err: err}
	}

	return &driver, nil
}

func (r *driverRepository) ListAvailable(ctx context.Context) ([]*models.Driver, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.DriverStatusAvailable})
	if err != nil {
		return nil, domain.StorageError{Op: "list available drivers", Err: err}
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, domain.StorageError{Op: "decode available drivers", Err: err}
	}

	return drivers, nil
}

// ClaimAvailable is the compare-and-set that orders concurrent assignment
// attempts: the update matches only while the driver is still available, so
// exactly one claimant observes ModifiedCount == 1.
func (r *driverRepository) ClaimAvailable(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.DriverStatusAvailable},
		bson.M{"$set": bson.M{
			"status":     models.DriverStatusNotAvailable,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return false, domain.StorageError{Op: "claim driver", Err: err}
	}

	if result.ModifiedCount != 1 {
		return false, nil
	}

	r.invalidateDriverCache(ctx, id.Hex())
	return true, nil
}

func (r *driverRepository) Release(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     models.DriverStatusAvailable,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return domain.StorageError{Op: "release driver", Err: err}
	}

	r.invalidateDriverCache(ctx, id.Hex())
	return nil
}

func (r *driverRepository) SetAvailable(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.DriverStatusNotAvailable},
		bson.M{"$set": bson.M{
			"status":     models.DriverStatusAvailable,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return false, domain.StorageError{Op: "set driver available", Err: err}
	}

	if result.ModifiedCount == 1 {
		r.invalidateDriverCache(ctx, id.Hex())
		return true, nil
	}

	// No transition happened: either already available (no-op success) or
	// the driver does not exist.
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, domain.StorageError{Op: "check driver exists", Err: err}
	}
	if count == 0 {
		return false, domain.NotFoundError{Resource: "driver"}
	}

	return false, nil
}

func (r *driverRepository) cacheDriver(ctx context.Context, driver *models.Driver) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, utils.CacheKeyDriverPrefix+driver.ID.Hex(), driver, r.cacheTTL)
}

func (r *driverRepository) driverFromCache(ctx context.Context, id string) *models.Driver {
	if r.cache == nil {
		return nil
	}
	var driver models.Driver
	if err := r.cache.Get(ctx, utils.CacheKeyDriverPrefix+id, &driver); err != nil {
		return nil
	}
	return &driver
}

func (r *driverRepository) invalidateDriverCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, utils.CacheKeyDriverPrefix+id)
}
