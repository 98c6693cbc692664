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

type RegisterAdminInput struct {
	Name          string `json:"Name" validate:"required"`
	AdminID       int64  `json:"AdminID" validate:"required"`
	AdminUsername string `json:"adminUsername" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Mobile        string `json:"mobile" validate:"required"`
	Password      string `json:"password" validate:"required,max=72"`
}

type LoginAdminInput struct {
	AdminUsername string `json:"adminUsername" validate:"required"`
	Password      string `json:"password" validate:"required,max=72"`
}

// UpdateAdminInput is a partial update. Present but empty or zero fields are
// ignored.
type UpdateAdminInput struct {
	Name          models.Optional[string] `json:"Name"`
	AdminID       models.Optional[int64]  `json:"AdminID"`
	AdminUsername models.Optional[string] `json:"adminUsername"`
	Email         models.Optional[string] `json:"email"`
	Mobile        models.Optional[string] `json:"mobile"`
	Password      models.Optional[string] `json:"password"`
}

// AdminService mirrors UserService for back-office accounts, which carry two
// unique keys: AdminID and adminUsername.
type AdminService struct {
	repo   repositories.AdminRepository
	hasher PasswordHasher
	events events
	log    *zap.Logger
	now    func() time.Time
}

func NewAdminService(repo repositories.AdminRepository, hasher PasswordHasher, publisher EventPublisher, log *zap.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		hasher: hasher,
		events: events{pub: publisher, log: log},
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AdminService) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*models.Admin, error) {
	if fields := utils.ValidateStruct(in); fields != nil {
		return nil, invalidInput("All fields are required.", fields)
	}

	if _, err := s.repo.GetByUsername(ctx, in.AdminUsername); err == nil {
		return nil, conflict("Admin username already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check admin username: %w", err)
	}

	if _, err := s.repo.GetByAdminID(ctx, in.AdminID); err == nil {
		return nil, conflict("Admin ID already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check admin ID: %w", err)
	}

	hashed, err := hashPassword(s.hasher, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	admin := &models.Admin{
		Name:          in.Name,
		AdminID:       in.AdminID,
		AdminUsername: in.AdminUsername,
		Email:         in.Email,
		Mobile:        in.Mobile,
		Password:      hashed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict("Admin username or Admin ID already exists.")
		}
		return nil, fmt.Errorf("failed to register admin: %w", err)
	}

	s.log.Info("Admin registered", zap.String("admin_id", admin.ID), zap.Int64("admin_number", admin.AdminID))
	s.events.emit(ctx, EventAdminRegistered, admin.Summary())
	return admin, nil
}

func (s *AdminService) LoginAdmin(ctx context.Context, in LoginAdminInput) (*models.Admin, error) {
	if fields := utils.ValidateStruct(in); fields != nil {
		return nil, invalidInput("Admin username and password are required.", fields)
	}

	admin, err := s.repo.GetByUsername(ctx, in.AdminUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Admin not found.")
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !s.hasher.Verify(in.Password, admin.Password) {
		s.log.Warn("Admin login rejected", zap.String("admin_username", in.AdminUsername))
		return nil, invalidCredentials()
	}

	s.log.Info("Admin logged in", zap.String("admin_id", admin.ID))
	return admin, nil
}

func (s *AdminService) UpdateAdmin(ctx context.Context, id string, in UpdateAdminInput) (*models.Admin, error) {
	if email, ok := in.Email.Get(); ok && email != "" {
		if fields := utils.ValidateVar("email", email, "email"); fields != nil {
			return nil, invalidInput("Validation failed.", fields)
		}
	}

	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Admin not found")
		}
		return nil, fmt.Errorf("failed to load admin %s: %w", id, err)
	}

	applyNonEmpty(&admin.Name, in.Name)
	applyNonEmpty(&admin.AdminID, in.AdminID)
	applyNonEmpty(&admin.AdminUsername, in.AdminUsername)
	applyNonEmpty(&admin.Email, in.Email)
	applyNonEmpty(&admin.Mobile, in.Mobile)

	if password, ok := in.Password.Get(); ok && password != "" {
		hashed, err := hashPassword(s.hasher, password)
		if err != nil {
			return nil, err
		}
		admin.Password = hashed
	}

	admin.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, admin); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, conflict("Admin username or Admin ID already exists.")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound("Admin not found")
		}
		return nil, fmt.Errorf("failed to update admin %s: %w", id, err)
	}

	s.log.Info("Admin updated", zap.String("admin_id", admin.ID))
	return admin, nil
}

func (s *AdminService) DeleteAdmin(ctx context.Context, id string) (*models.AdminSummary, error) {
	admin, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Admin not found")
		}
		return nil, fmt.Errorf("failed to delete admin %s: %w", id, err)
	}

	summary := admin.Summary()
	s.log.Info("Admin deleted", zap.String("admin_id", summary.ID))
	s.events.emit(ctx, EventAdminDeleted, summary)
	return &summary, nil
}
