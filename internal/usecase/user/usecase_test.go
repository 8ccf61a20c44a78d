package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "users-api/internal/domain/user"
	pkgerrors "users-api/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestUsecase(t *testing.T) (*UserUsecase, *MockRepository) {
	mockRepo := new(MockRepository)
	t.Cleanup(func() { mockRepo.AssertExpectations(t) })
	return New(mockRepo, zaptest.NewLogger(t)), mockRepo
}

func ptr(s string) *string { return &s }

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{Name: ptr("John Doe"), Email: ptr("john@example.com")}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == "" && u.Name == "John Doe" && u.Email == "john@example.com"
	})).Return(&domain.User{ID: "u-1", Name: "John Doe", Email: "john@example.com"}, nil)

	resp, err := uc.CreateUser(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Equal(t, "John Doe", resp.User.Name)
	assert.Equal(t, "john@example.com", resp.User.Email)
}

func TestCreateUser_EmptyValuesReachRepository(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "" && u.Email == "a@b.c"
	})).Return(&domain.User{ID: "u-1", Email: "a@b.c"}, nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: ptr(""), Email: ptr("a@b.c")})

	require.NoError(t, err)
	assert.Empty(t, resp.User.Name)
}

func TestCreateUser_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantMsg string
	}{
		{"name missing", CreateUserRequest{Email: ptr("john@example.com")}, "name is missing"},
		{"email missing", CreateUserRequest{Name: ptr("John")}, "email is missing"},
		{"both missing", CreateUserRequest{}, "name is missing, email is missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := setupTestUsecase(t)

			resp, err := uc.CreateUser(context.Background(), tt.req)

			assert.Nil(t, resp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			appErr, typed := pkgerrors.As(err)
			assert.True(t, typed)
			assert.Equal(t, pkgerrors.CodeInternal, appErr.Code())
		})
	}
}

func TestCreateUser_LongValuesReachRepository(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	long := strings.Repeat("a", 300)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == long
	})).Return(&domain.User{ID: "u-1", Name: long, Email: "john@example.com"}, nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: ptr(long), Email: ptr("john@example.com")})

	require.NoError(t, err)
	assert.Len(t, resp.User.Name, 300)
}

func TestCreateUser_EmailExists(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(nil, pkgerrors.NewAlreadyExistsError("user", "email already exists"))

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: ptr("John"), Email: ptr("john@example.com")})

	assert.Nil(t, resp)
	assert.True(t, pkgerrors.IsAlreadyExists(err))
}

// ==================== LIST USERS TESTS ====================

func TestListUsers(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: "1", Name: "User 1", Email: "u1@example.com"},
		{ID: "2", Name: "User 2", Email: "u2@example.com"},
	}, nil)

	resp, err := uc.ListUsers(ctx, ListUsersRequest{})

	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "1", resp.Users[0].ID)
	assert.Equal(t, "u2@example.com", resp.Users[1].Email)
}

func TestListUsers_Empty(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	resp, err := uc.ListUsers(ctx, ListUsersRequest{})

	require.NoError(t, err)
	assert.NotNil(t, resp.Users)
	assert.Empty(t, resp.Users)
}

func TestListUsers_Error(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, errors.New("connection refused"))

	resp, err := uc.ListUsers(ctx, ListUsersRequest{})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "connection refused")
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "u-1").Return(&domain.User{ID: "u-1", Name: "John", Email: "john@example.com"}, nil)

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: "u-1"})

	require.NoError(t, err)
	assert.Equal(t, "John", resp.User.Name)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, pkgerrors.NewNotFoundError("user", ""))

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: "missing"})

	assert.Nil(t, resp)
	assert.True(t, pkgerrors.IsNotFound(err))
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Partial(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Update", ctx, "u-1", mock.MatchedBy(func(p domain.Patch) bool {
		return p.Name != nil && *p.Name == "Johnny" && p.Email == nil
	})).Return(&domain.User{ID: "u-1", Name: "Johnny", Email: "john@example.com"}, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "u-1", Name: ptr("Johnny")})

	require.NoError(t, err)
	assert.Equal(t, "Johnny", resp.User.Name)
	assert.Equal(t, "john@example.com", resp.User.Email)
}

func TestUpdateUser_EmptyPatch(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Update", ctx, "u-1", domain.Patch{}).
		Return(&domain.User{ID: "u-1", Name: "John", Email: "john@example.com"}, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "u-1"})

	require.NoError(t, err)
	assert.Equal(t, "John", resp.User.Name)
}

func TestUpdateUser_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", pkgerrors.NewNotFoundError("user", ""), pkgerrors.IsNotFound},
		{"email exists", pkgerrors.NewAlreadyExistsError("user", ""), pkgerrors.IsAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			ctx := context.Background()

			mockRepo.On("Update", ctx, "u-1", mock.Anything).Return(nil, tt.err)

			resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "u-1", Email: ptr("x@example.com")})

			assert.Nil(t, resp)
			assert.True(t, tt.check(err))
		})
	}
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "u-1").Return(nil)

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "u-1"})

	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.ID)
}

func TestDeleteUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "missing").Return(pkgerrors.NewNotFoundError("user", ""))

	resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "missing"})

	assert.Nil(t, resp)
	assert.True(t, pkgerrors.IsNotFound(err))
}
