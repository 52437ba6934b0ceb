package identity

import (
	"context"
	"testing"
	"time"

	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupUserService() (*UserService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	repo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewUserService(repo, blacklist, time.Hour, zap.NewNop()), repo, blacklist
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupUserService()
	regionID := uuid.New()
	approved := false
	user := newTestUser(t, identity.RoleRepresentative, false)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f identity.UserFilter) bool {
		return f.Keyword == "maria" && f.Role != nil && *f.Role == identity.RoleRepresentative &&
			f.Approved != nil && !*f.Approved && f.RegionID != nil && *f.RegionID == regionID &&
			f.Page == 2 && f.PageSize == 10 && f.SortBy == "created_at"
	})).Return([]identity.User{*user}, int64(11), nil)

	page, err := svc.List(ctx, UserListFilter{
		Search:   " maria ",
		Role:     "representative",
		Approved: &approved,
		RegionID: regionID.String(),
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	repo.AssertExpectations(t)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("approved by default", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		repo.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		dto, err := svc.Create(ctx, CreateUserInput{
			Name:     "Ana",
			Email:    "Ana@example.com",
			Password: testPassword,
			Role:     "admin",
		})
		require.NoError(t, err)
		assert.True(t, dto.Approved)
		assert.True(t, dto.Active)
		assert.Equal(t, "ana@example.com", dto.Email)
	})

	t.Run("explicitly pending", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		approved := false
		repo.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		dto, err := svc.Create(ctx, CreateUserInput{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: testPassword,
			Role:     "representative",
			Approved: &approved,
		})
		require.NoError(t, err)
		assert.False(t, dto.Approved)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		repo.On("ExistsByEmail", ctx, "ana@example.com").Return(true, nil)

		_, err := svc.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@example.com", Password: testPassword, Role: "admin"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("edits fields and revokes sessions on password reset", func(t *testing.T) {
		svc, repo, blacklist := setupUserService()
		user := newTestUser(t, identity.RoleRepresentative, true)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
		repo.On("Update", ctx, user).Return(nil)

		name := "Maria S."
		email := "new@example.com"
		password := "r3setPassword"
		dto, err := svc.Update(ctx, user.ID, UpdateUserInput{Name: &name, Email: &email, Password: &password})
		require.NoError(t, err)
		assert.Equal(t, "Maria S.", dto.Name)
		assert.Equal(t, "new@example.com", dto.Email)
		assert.True(t, user.VerifyPassword(password))

		revoked, err := blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("clears the region", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		user := newTestUser(t, identity.RoleRepresentative, true)
		regionID := uuid.New()
		user.SetRegion(&regionID)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		dto, err := svc.Update(ctx, user.ID, UpdateUserInput{ClearRegion: true})
		require.NoError(t, err)
		assert.Nil(t, dto.RegionID)
	})

	t.Run("cannot demote the last admin", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		user := newTestUser(t, identity.RoleAdmin, true)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("CountAdmins", ctx).Return(int64(1), nil)

		role := "representative"
		_, err := svc.Update(ctx, user.ID, UpdateUserInput{Role: &role})
		assert.ErrorIs(t, err, ErrLastAdmin)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_Flags(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		user := newTestUser(t, identity.RoleRepresentative, false)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		dto, err := svc.Approve(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, dto.Approved)
	})

	t.Run("approve twice", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		user := newTestUser(t, identity.RoleRepresentative, true)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := svc.Approve(ctx, user.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_APPROVED", domainErr.Code)
	})

	t.Run("deactivate then activate", func(t *testing.T) {
		svc, repo, blacklist := setupUserService()
		user := newTestUser(t, identity.RoleRepresentative, true)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		dto, err := svc.Deactivate(ctx, uuid.New(), user.ID)
		require.NoError(t, err)
		assert.False(t, dto.Active)
		revoked, err := blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, revoked)

		dto, err = svc.Activate(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, dto.Active)
	})

	t.Run("cannot deactivate self", func(t *testing.T) {
		svc, _, _ := setupUserService()
		id := uuid.New()
		_, err := svc.Deactivate(ctx, id, id)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CANNOT_DEACTIVATE_SELF", domainErr.Code)
	})

	t.Run("deactivating an admin with others left", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		user := newTestUser(t, identity.RoleAdmin, true)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("CountAdmins", ctx).Return(int64(2), nil)
		repo.On("Update", ctx, user).Return(nil)

		_, err := svc.Deactivate(ctx, uuid.New(), user.ID)
		assert.NoError(t, err)
	})

	t.Run("deactivating the last admin", func(t *testing.T) {
		svc, repo, _ := setupUserService()
		user := newTestUser(t, identity.RoleAdmin, true)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("CountAdmins", ctx).Return(int64(1), nil)

		_, err := svc.Deactivate(ctx, uuid.New(), user.ID)
		assert.ErrorIs(t, err, ErrLastAdmin)
	})
}
