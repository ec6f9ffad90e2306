package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
	"github.com/Ghosted34/natours-nest/internal/pkg/password"
	"github.com/Ghosted34/natours-nest/internal/pkg/random"
	"github.com/Ghosted34/natours-nest/internal/pkg/token"
)

// StaffService manages staff accounts. Admin creation is gated by a
// single-use OTP delivered out of band.
type StaffService struct {
	staff  ports.StaffRepository
	cache  ports.TokenCache
	codec  *token.Codec
	emails ports.EmailDispatcher
	otpTTL time.Duration
	logger zerolog.Logger
}

func NewStaffService(
	staff ports.StaffRepository,
	cache ports.TokenCache,
	codec *token.Codec,
	emails ports.EmailDispatcher,
	otpTTL time.Duration,
	logger zerolog.Logger,
) *StaffService {
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}
	return &StaffService{
		staff:  staff,
		cache:  cache,
		codec:  codec,
		emails: emails,
		otpTTL: otpTTL,
		logger: logger,
	}
}

// GenerateOTP stores a fresh single-use code for the email and dispatches it.
// Possession of the inbox is what gates admin elevation.
func (s *StaffService) GenerateOTP(ctx context.Context, email string) error {
	otp := random.OTP()
	entry := domain.OTPEntry{
		Code:      otp,
		Email:     email,
		Used:      false,
		ExpiresAt: time.Now().UTC().Add(s.otpTTL),
	}
	if err := s.cache.StoreOTP(ctx, email, entry, s.otpTTL); err != nil {
		return err
	}

	s.emails.Enqueue(ports.EmailJob{Kind: ports.EmailOTP, To: email, OTP: otp})
	return nil
}

// CreateAdmin bootstraps an admin account after validating and consuming the
// OTP issued for that email.
func (s *StaffService) CreateAdmin(ctx context.Context, input ports.CreateAdminInput) (*ports.StaffResult, error) {
	entry, err := s.cache.GetOTP(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Used || entry.Code != input.OTP {
		return nil, domain.ErrInvalidOTP
	}

	if _, err := s.staff.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrStaffExists
	} else if !errors.Is(err, domain.ErrStaffNotFound) {
		return nil, err
	}

	if err := s.cache.MarkOTPUsed(ctx, input.Email); err != nil {
		return nil, err
	}

	return s.create(ctx, &domain.Staff{
		Email:       input.Email,
		Role:        domain.RoleAdmin,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Department:  "Administration",
		EmployeeID:  employeeID(input.FirstName, input.LastName),
		Permissions: domain.DefaultPermissions(domain.RoleAdmin),
		IsActive:    true,
		// The admin picked this password during the OTP exchange.
		PasswordChanged: true,
	}, input.Password)
}

// CreateStaff creates a guide or lead guide under an existing admin.
func (s *StaffService) CreateStaff(ctx context.Context, input ports.CreateStaffInput, creatorID string) (*ports.StaffResult, error) {
	if !input.Role.IsStaff() {
		return nil, domain.ErrForbidden
	}

	if _, err := s.staff.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrStaffExists
	} else if !errors.Is(err, domain.ErrStaffNotFound) {
		return nil, err
	}

	department := input.Department
	if department == "" {
		department = "General"
	}

	return s.create(ctx, &domain.Staff{
		Email:       input.Email,
		Role:        input.Role,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Department:  department,
		EmployeeID:  employeeID(input.FirstName, input.LastName),
		Permissions: domain.DefaultPermissions(input.Role),
		IsActive:    true,
		CreatedBy:   creatorID,
		// The creating admin set a temporary password; the guide must change
		// it before touching guide-gated resources.
		PasswordChanged: false,
	}, input.Password)
}

func (s *StaffService) List(ctx context.Context) ([]*domain.Staff, error) {
	return s.staff.List(ctx)
}

func (s *StaffService) Get(ctx context.Context, id string) (*domain.Staff, error) {
	return s.staff.FindByID(ctx, id)
}

// Update patches the mutable staff fields. A role change must stay within the
// staff roles.
func (s *StaffService) Update(ctx context.Context, id string, patch ports.StaffPatch) (*domain.Staff, error) {
	if patch.Role != "" && !patch.Role.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.staff.Update(ctx, id, patch)
}

// Deactivate clears the active flag; the authenticator rejects inactive staff
// so existing tokens stop working on the next request.
func (s *StaffService) Deactivate(ctx context.Context, id string) (*domain.Staff, error) {
	st, err := s.staff.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("staff_id", id).Msg("staff account deactivated")
	return st, nil
}

func (s *StaffService) DeleteStaff(ctx context.Context, id string) error {
	return s.staff.Delete(ctx, id)
}

func (s *StaffService) create(ctx context.Context, staff *domain.Staff, plaintext string) (*ports.StaffResult, error) {
	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	staff.PasswordHash = hash
	staff.CreatedAt = now
	staff.UpdatedAt = now

	created, err := s.staff.Create(ctx, staff)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.codec.SignPair(staffPrincipal(created))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("staff_id", created.ID).Str("role", string(created.Role)).Msg("staff account created")
	return &ports.StaffResult{Staff: created, AccessToken: access, RefreshToken: refresh}, nil
}

func employeeID(firstName, lastName string) string {
	return fmt.Sprintf("EMP-%s.%s-%d", firstName, lastName, time.Now().UnixMilli())
}
