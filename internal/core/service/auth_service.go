package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
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

// AuthService implements the authentication and session-revocation core. All
// operations are short sequences of store/cache calls; single-use token
// consumption relies on the repository's atomic conditional updates, never on
// in-process locking.
type AuthService struct {
	users       ports.UserRepository
	staff       ports.StaffRepository
	cache       ports.TokenCache
	codec       *token.Codec
	emails      ports.EmailDispatcher
	frontendURL string
	resetTTL    time.Duration
	logger      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	staff ports.StaffRepository,
	cache ports.TokenCache,
	codec *token.Codec,
	emails ports.EmailDispatcher,
	frontendURL string,
	resetTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		users:       users,
		staff:       staff,
		cache:       cache,
		codec:       codec,
		emails:      emails,
		frontendURL: frontendURL,
		resetTTL:    resetTTL,
		logger:      logger,
	}
}

// Register creates an unverified account, dispatches a verification email and
// signs the account in. Email delivery is fire-and-forget: a send failure is
// logged by the dispatcher and never rolls back the created account.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if input.Username != "" {
		if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
			return nil, domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:             input.Email,
		Username:          input.Username,
		PasswordHash:      hash,
		Role:              role,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		Avatar:            input.Avatar,
		GoogleID:          input.GoogleID,
		IsVerified:        false,
		VerificationToken: random.Token(),
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	s.emails.Enqueue(ports.EmailJob{
		Kind:      ports.EmailVerification,
		To:        user.Email,
		FirstName: user.FirstName,
		Link:      fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, user.VerificationToken),
	})

	return s.userResult(user)
}

// SignIn authenticates an end-user (email or username) or a staff member
// (email only). Unknown accounts and wrong passwords are indistinguishable:
// same error, and a dummy hash verification keeps the miss path as expensive
// as the hit path.
func (s *AuthService) SignIn(ctx context.Context, input ports.SignInInput) (*ports.AuthResult, error) {
	if input.Kind.IsStaff() {
		return s.signInStaff(ctx, input)
	}
	return s.signInUser(ctx, input)
}

func (s *AuthService) signInUser(ctx context.Context, input ports.SignInInput) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmailOrUsername(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			password.DummyVerify(input.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := password.Verify(user.PasswordHash, input.Password)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return s.userResult(user)
}

func (s *AuthService) signInStaff(ctx context.Context, input ports.SignInInput) (*ports.AuthResult, error) {
	staff, err := s.staff.FindByEmail(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			password.DummyVerify(input.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := password.Verify(staff.PasswordHash, input.Password)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	// Deactivated staff are indistinguishable from bad credentials.
	if !staff.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	access, refresh, err := s.codec.SignPair(staffPrincipal(staff))
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Staff: staff, AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyEmail consumes a verification token. The flip to verified and the
// token clear happen in one conditional update keyed on the token value, so a
// replayed token can never verify twice.
func (s *AuthService) VerifyEmail(ctx context.Context, verificationToken string) (*ports.AuthResult, error) {
	if verificationToken == "" {
		return nil, domain.ErrInvalidToken
	}

	existing, err := s.users.FindByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if existing.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}

	user, err := s.users.ConsumeVerificationToken(ctx, verificationToken)
	if err != nil {
		// A concurrent request may have consumed it between the read and the
		// conditional update; that request won, this one gets the same answer
		// as any stale token.
		return nil, err
	}

	return s.userResult(user)
}

// ResendVerification regenerates the opaque token and re-dispatches the
// email. Regeneration invalidates the previously mailed link.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	tok := random.Token()
	if err := s.users.SetVerificationToken(ctx, user.ID, tok); err != nil {
		return err
	}

	s.emails.Enqueue(ports.EmailJob{
		Kind:      ports.EmailVerification,
		To:        user.Email,
		FirstName: user.FirstName,
		Link:      fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, tok),
	})
	return nil
}

// Logout blacklists the presented access token for the access lifetime
// ceiling and, when a refresh token accompanies it, that one for the refresh
// ceiling. The second insertion is best-effort: its failure is logged and
// does not undo the first.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return domain.ErrInvalidToken
	}

	if err := s.cache.BlacklistToken(ctx, accessToken, s.codec.AccessTTL()); err != nil {
		return err
	}

	if refreshToken != "" {
		if err := s.cache.BlacklistToken(ctx, refreshToken, s.codec.RefreshTTL()); err != nil {
			s.logger.Error().Err(err).Msg("refresh token blacklist failed after access token was revoked")
		}
	}
	return nil
}

// LogoutAll drops a whole-account revocation marker. Tokens issued before
// this instant are rejected by the authenticator; tokens issued after are
// unaffected.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.cache.BlacklistAllUserTokens(ctx, userID, s.codec.RefreshTTL())
}

// Refresh mints a new access token. The revocation check runs before
// signature verification; order affects latency only, not the outcome.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	revoked, err := s.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", domain.ErrInvalidToken
	}

	claims, err := s.codec.Verify(refreshToken, token.PurposeRefresh)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	return s.codec.Sign(domain.Principal{
		ID:       claims.Subject,
		Email:    claims.Email,
		Role:     claims.Role,
		Verified: claims.Verified,
	}, token.PurposeAccess)
}

// ForgotPassword issues a short-lived single-use reset token. Only its digest
// is persisted; the raw value goes out in the reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	raw := random.Token()
	expiresAt := time.Now().UTC().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, digest(raw), expiresAt); err != nil {
		return err
	}

	s.emails.Enqueue(ports.EmailJob{
		Kind:      ports.EmailPasswordReset,
		To:        user.Email,
		FirstName: user.FirstName,
		Link:      fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, raw),
	})
	return nil
}

// ResetPassword consumes a reset token: the password swap and the token clear
// are one conditional update keyed on the token digest and its expiry. The
// raw token is additionally blacklisted so it cannot be replayed within its
// natural expiry window.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	revoked, err := s.cache.IsTokenBlacklisted(ctx, resetToken)
	if err != nil {
		return err
	}
	if revoked {
		return domain.ErrInvalidToken
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if _, err := s.users.ConsumeResetToken(ctx, digest(resetToken), time.Now().UTC(), hash); err != nil {
		return err
	}

	if err := s.cache.BlacklistToken(ctx, resetToken, s.resetTTL); err != nil {
		s.logger.Error().Err(err).Msg("reset token blacklist failed after password update")
	}
	return nil
}

// ChangePassword verifies the caller's current password, persists the new one
// and then revokes every existing session for the account. The revocation is
// part of the contract: a password change must force re-authentication
// everywhere. Staff accounts resolve through the staff store when the user
// lookup misses; for them the change also clears the temporary-password flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return s.changeStaffPassword(ctx, userID, currentPassword, newPassword)
		}
		return err
	}

	ok, err := password.Verify(user.PasswordHash, currentPassword)
	if err != nil || !ok {
		return domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	return s.LogoutAll(ctx, userID)
}

func (s *AuthService) changeStaffPassword(ctx context.Context, staffID, currentPassword, newPassword string) error {
	st, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	ok, err := password.Verify(st.PasswordHash, currentPassword)
	if err != nil || !ok {
		return domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.staff.UpdatePassword(ctx, staffID, hash); err != nil {
		return err
	}

	return s.LogoutAll(ctx, staffID)
}

func (s *AuthService) userResult(user *domain.User) (*ports.AuthResult, error) {
	access, refresh, err := s.codec.SignPair(userPrincipal(user))
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func userPrincipal(u *domain.User) domain.Principal {
	return domain.Principal{ID: u.ID, Email: u.Email, Role: u.Role, Verified: u.IsVerified, PasswordChanged: true}
}

func staffPrincipal(st *domain.Staff) domain.Principal {
	return domain.Principal{ID: st.ID, Email: st.Email, Role: st.Role, Verified: true, PasswordChanged: st.PasswordChanged}
}

func digest(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}
