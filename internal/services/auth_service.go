package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"uberfriends/internal/domain"
	"uberfriends/internal/models"
	"uberfriends/internal/repositories/interfaces"
	"uberfriends/internal/utils"
	"uberfriends/pkg/logger"
)

// ErrInvalidCredentials deliberately covers both unknown email and wrong
// password so login responses do not leak which accounts exist.
var ErrInvalidCredentials = errors.New(utils.ErrInvalidCredentials)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string, userType models.UserType) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *utils.TokenPair, error)
}

type authService struct {
	userRepo   interfaces.UserRepository
	jwtSecret  string
	bcryptCost int
	log        *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, bcryptCost int, log *logger.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, password string, userType models.UserType) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	if !utils.IsValidEmail(email) {
		return nil, domain.ValidationError{Field: "email", Msg: utils.ErrInvalidEmail}
	}
	if !utils.IsValidPassword(password) {
		return nil, domain.ValidationError{Field: "password", Msg: utils.ErrWeakPassword}
	}
	if userType != "" && userType != models.UserTypeRider && userType != models.UserTypeDriver {
		return nil, domain.ValidationError{Field: "user_type", Msg: "must be rider or driver"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		UserType: userType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithUserID(user.ID).Info("User registered")

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *utils.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.UserType), user.Email, s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	s.log.WithUserID(user.ID).Info("User logged in")

	return user, tokens, nil
}
