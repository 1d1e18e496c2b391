package mongodb

import (
	"context"
	"strings"
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

type userRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
	cacheTTL   time.Duration
}

func NewUserRepository(db *mongo.Database, cache services.CacheService, cacheTTL time.Duration) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.UserType == "" {
		user.UserType = models.UserTypeRider
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ConflictError{Resource: "user", Msg: utils.ErrUserExists}
		}
		return domain.StorageError{Op: "create user", Err: err}
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if user := r.userFromCache(ctx, id.Hex()); user != nil {
		return user, nil
	}

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "user"}
		}
		return nil, domain.StorageError{Op: "get user", Err: err}
	}

	r.cacheUser(ctx, &user)

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "user"}
		}
		return nil, domain.StorageError{Op: "get user by email", Err: err}
	}

	return &user, nil
}

func (r *userRepository) FindByEmails(ctx context.Context, emails []string) ([]*models.User, error) {
	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(email)))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"email": bson.M{"$in": normalized}})
	if err != nil {
		return nil, domain.StorageError{Op: "find users by emails", Err: err}
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, domain.StorageError{Op: "decode users", Err: err}
	}

	return users, nil
}

func (r *userRepository) cacheUser(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, utils.CacheKeyUserPrefix+user.ID.Hex(), user, r.cacheTTL)
}

func (r *userRepository) userFromCache(ctx context.Context, id string) *models.User {
	if r.cache == nil {
		return nil
	}
	var user models.User
	if err := r.cache.Get(ctx, utils.CacheKeyUserPrefix+id, &user); err != nil {
		return nil
	}
	return &user
}
