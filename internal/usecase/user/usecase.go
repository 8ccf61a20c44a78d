package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "users-api/internal/domain/user"
	pkgerrors "users-api/pkg/errors"
	"users-api/pkg/logger"
)

// Repository defines the interface for user data access operations.
// Uniqueness and existence are enforced by the implementation, which
// reports them as pkg/errors AlreadyExistsError and NotFoundError.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)                // Insert a new user
	List(ctx context.Context) ([]domain.User, error)                                 // All users in insertion order
	GetByID(ctx context.Context, id string) (*domain.User, error)                    // Retrieve user by ID
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) // Apply a partial update
	Delete(ctx context.Context, id string) error                                     // Delete user by ID
}

// UserUsecase implements the business logic for user management operations.
// It holds no state between calls.
type UserUsecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*UserUsecase)(nil)

// New creates a new instance of UserUsecase.
func New(r Repository, log *zap.Logger) *UserUsecase {
	return &UserUsecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError reports input the users table cannot store. Such
// input is an internal error: no detail of it reaches the client.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return pkgerrors.NewInternalError("invalid input", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s is missing", strings.ToLower(e.Field())))
	}
	return pkgerrors.NewInternalError("invalid input", errors.New(strings.Join(messages, ", ")))
}

// CreateUser validates the request and stores a new user.
func (uc *UserUsecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.Stringp("name", in.Name), zap.Stringp("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.Create(ctx, &domain.User{
		Name:  *in.Name,
		Email: *in.Email,
	})
	if err != nil {
		log.Warn("failed to create user", zap.Error(err))
		return nil, err
	}

	return &CreateUserResponse{User: fromDomain(u)}, nil
}

// ListUsers returns every stored user.
func (uc *UserUsecase) ListUsers(ctx context.Context, _ ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Debug("listing users")

	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = fromDomain(&domainUsers[i])
	}

	return &ListUsersResponse{Users: users}, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUsecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		logger.WithContext(ctx, uc.log).Warn("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &GetUserResponse{User: fromDomain(u)}, nil
}

// UpdateUser applies the set fields.
func (uc *UserUsecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.String("id", in.ID),
		zap.Bool("name_set", in.Name != nil), zap.Bool("email_set", in.Email != nil))

	u, err := uc.repo.Update(ctx, in.ID, domain.Patch{Name: in.Name, Email: in.Email})
	if err != nil {
		log.Warn("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateUserResponse{User: fromDomain(u)}, nil
}

// DeleteUser removes a user by ID.
func (uc *UserUsecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.String("id", in.ID))

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		log.Warn("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &DeleteUserResponse{ID: in.ID}, nil
}
