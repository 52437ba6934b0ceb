package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session errors returned by Authenticate
var (
	ErrSessionInvalid = shared.NewDomainError("UNAUTHORIZED", "Session is invalid or expired")
	ErrSessionRevoked = shared.NewDomainError("UNAUTHORIZED", "Session has been revoked")
)

// Principal is the user behind an authenticated session
type Principal struct {
	User   *identity.User
	Claims *auth.Claims
}

// AuthService handles login, registration and session checks
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login verifies the credentials and issues a session
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrInvalidCredentials
	}

	// Gate errors are only revealed to someone who knows the password
	if err := user.CheckCanLogin(); err != nil {
		s.logger.Warn("Login refused", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	session, err := s.jwtService.Issue(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("Failed to issue session", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session")
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// The session is valid either way
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		Token:     session.Token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      ToUserDTO(user),
	}, nil
}

// Register creates a representative account that waits for approval
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(input.Name, email, input.Password, identity.RoleRepresentative)
	if err != nil {
		return nil, err
	}
	if err := user.SetPhone(input.Phone); err != nil {
		return nil, err
	}
	user.SetRegion(input.RegionID)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Representative registered, pending approval",
		zap.String("user_id", user.ID.String()))

	dto := ToUserDTO(user)
	return &dto, nil
}

// Authenticate validates a session token and reloads its user. The user is
// read on every call so deactivation takes effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrSessionInvalid
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if err := user.CheckCanLogin(); err != nil {
		return nil, err
	}

	return &Principal{User: user, Claims: claims}, nil
}

// Logout revokes one session for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke session", zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// ChangePassword changes the user's own password, revokes every existing
// session and issues a fresh one for the caller
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.TTL()); err != nil {
		s.logger.Error("Failed to revoke sessions after password change", zap.Error(err))
		return nil, err
	}

	session, err := s.jwtService.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session")
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Token:     session.Token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      ToUserDTO(user),
	}, nil
}
