package identity

import (
	"context"
	"strings"
	"time"

	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLastAdmin is returned when a change would leave no active administrator
var ErrLastAdmin = shared.NewDomainError("LAST_ADMIN", "At least one active administrator must remain")

// UserService handles user management by administrators
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new user service. sessionTTL bounds how long a
// revocation must be remembered.
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, input UserListFilter) (*shared.Paginated[UserDTO], error) {
	filter := identity.NewUserFilter()
	filter.Keyword = strings.TrimSpace(input.Search)
	filter.Approved = input.Approved
	filter.Active = input.Active
	if input.Role != "" {
		role := identity.Role(input.Role)
		filter.Role = &role
	}
	if input.RegionID != "" {
		regionID, err := uuid.Parse(input.RegionID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid region_id")
		}
		filter.RegionID = &regionID
	}
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.OrderBy != "" {
		filter.SortBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.SortOrder = input.OrderDir
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToUserDTOs(users), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// Create creates a user. Users created by an administrator are approved
// unless the form says otherwise.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(input.Name, email, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetPhone(input.Phone); err != nil {
		return nil, err
	}
	user.SetRegion(input.RegionID)
	if input.Approved == nil || *input.Approved {
		_ = user.Approve()
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	dto := ToUserDTO(user)
	return &dto, nil
}

// Update edits a user
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := user.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
			}
			if err := user.SetEmail(email); err != nil {
				return nil, err
			}
		}
	}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.RegionID != nil || input.ClearRegion {
		user.SetRegion(input.RegionID)
	}

	revoke := false
	if input.Role != nil && identity.Role(*input.Role) != user.Role {
		if user.IsAdmin() {
			if err := s.ensureAnotherAdmin(ctx, user); err != nil {
				return nil, err
			}
		}
		if err := user.SetRole(identity.Role(*input.Role)); err != nil {
			return nil, err
		}
		// Sessions carry the role
		revoke = true
	}
	if input.Password != nil {
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
		revoke = true
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if revoke {
		s.revokeSessions(ctx, user.ID)
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// Approve lets a self-registered representative sign in
func (s *UserService) Approve(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Approve(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User approved", zap.String("user_id", user.ID.String()))

	dto := ToUserDTO(user)
	return &dto, nil
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// Deactivate blocks a user and ends their sessions
func (s *UserService) Deactivate(ctx context.Context, actorID, id uuid.UUID) (*UserDTO, error) {
	if actorID == id {
		return nil, shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		if err := s.ensureAnotherAdmin(ctx, user); err != nil {
			return nil, err
		}
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user.ID)

	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()))

	dto := ToUserDTO(user)
	return &dto, nil
}

// ensureAnotherAdmin fails when user is the only administrator able to sign in
func (s *UserService) ensureAnotherAdmin(ctx context.Context, user *identity.User) error {
	if !user.Active || !user.Approved {
		return nil
	}
	count, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.sessionTTL); err != nil {
		// Authenticate reloads the user, so a deactivated user is still refused
		s.logger.Error("Failed to revoke user sessions",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
