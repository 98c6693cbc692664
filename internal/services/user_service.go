package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/utils"
)

// RegisterUserInput is the body of a user registration.
type RegisterUserInput struct {
	FullName string `json:"fullName" validate:"required"`
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginUserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

// UpdateUserInput is a partial update. Present but empty fields are ignored.
type UpdateUserInput struct {
	FullName models.Optional[string] `json:"fullName"`
	Username models.Optional[string] `json:"username"`
	Email    models.Optional[string] `json:"email"`
	Mobile   models.Optional[string] `json:"mobile"`
	Password models.Optional[string] `json:"password"`
}

// UserService handles registration, login and profile changes of users.
type UserService struct {
	repo   repositories.UserRepository
	hasher PasswordHasher
	events events
	log    *zap.Logger
	now    func() time.Time
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(repo repositories.UserRepository, hasher PasswordHasher, publisher EventPublisher, log *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		events: events{pub: publisher, log: log},
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterUser validates the input, rejects a taken username, hashes the
// password and saves the user.
func (s *UserService) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	if fields := utils.ValidateStruct(in); fields != nil {
		return nil, invalidInput("All fields are required.", fields)
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return nil, conflict("Username already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := hashPassword(s.hasher, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		FullName:  in.FullName,
		Username:  in.Username,
		Email:     in.Email,
		Mobile:    in.Mobile,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict("Username already exists.")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.Info("User registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	s.events.emit(ctx, EventUserRegistered, user.Summary())
	return user, nil
}

// LoginUser checks the password of the user named in.Username.
func (s *UserService) LoginUser(ctx context.Context, in LoginUserInput) (*models.User, error) {
	if fields := utils.ValidateStruct(in); fields != nil {
		return nil, invalidInput("Username and password are required.", fields)
	}

	user, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("User not found.")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.Password) {
		s.log.Warn("User login rejected", zap.String("username", in.Username))
		return nil, invalidCredentials()
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID))
	return user, nil
}

// UpdateUser applies the present, non-empty fields of in to the user.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	if email, ok := in.Email.Get(); ok && email != "" {
		if fields := utils.ValidateVar("email", email, "email"); fields != nil {
			return nil, invalidInput("Validation failed.", fields)
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}

	applyNonEmpty(&user.FullName, in.FullName)
	applyNonEmpty(&user.Username, in.Username)
	applyNonEmpty(&user.Email, in.Email)
	applyNonEmpty(&user.Mobile, in.Mobile)

	if password, ok := in.Password.Get(); ok && password != "" {
		hashed, err := hashPassword(s.hasher, password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, conflict("Username already exists.")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound("User not found")
		}
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}

	s.log.Info("User updated", zap.String("user_id", user.ID))
	return user, nil
}

// DeleteUser removes the user and returns a summary of what was removed.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.UserSummary, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, fmt.Errorf("failed to delete user %s: %w", id, err)
	}

	summary := user.Summary()
	s.log.Info("User deleted", zap.String("user_id", summary.ID))
	s.events.emit(ctx, EventUserDeleted, summary)
	return &summary, nil
}
