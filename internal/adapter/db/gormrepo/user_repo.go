package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "users-api/internal/domain/user"
	pkgerrors "users-api/pkg/errors"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// UserRepo implements the user Repository on top of GORM. It runs against
// any dialect GORM supports; production uses PostgreSQL, tests use SQLite.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not supply an id.
func (u *UserSchema) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

// Create inserts a new user and returns the stored row.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("email already exists", zap.String("email", u.Email))
			return nil, emailExists()
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return toDomain(model), nil
}

// List returns every user in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = *toDomain(model)
	}
	return users, nil
}

// GetByID retrieves a user by id or returns a NotFoundError.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, userNotFound(id)
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(model), nil
}

// Update applies the set fields of patch to the user and returns the
// resulting row. The lookup and the write share one transaction.
func (r *UserRepo) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	var model UserSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}
		if err := tx.Model(&model).Updates(patch.Fields()).Error; err != nil {
			return err
		}
		return tx.First(&model, "id = ?", id).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			r.log.Debug("user not found for update", zap.String("id", id))
			return nil, userNotFound(id)
		case isUniqueViolation(err):
			r.log.Warn("email already exists", zap.String("id", id))
			return nil, emailExists()
		}
		r.log.Error("failed to update user in db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.String("id", model.ID))
	return toDomain(model), nil
}

// Delete removes a user by id. Deleting a missing id is a NotFoundError.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&UserSchema{}, "id = ?", id)
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Debug("user not found for delete", zap.String("id", id))
		return userNotFound(id)
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return nil
}

// Ping verifies the database connection.
func (r *UserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toDomain(m UserSchema) *domain.User {
	return &domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func userNotFound(id string) error {
	return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
}

func emailExists() error {
	return pkgerrors.NewAlreadyExistsError("user", "email already exists")
}

// isUniqueViolation recognises unique constraint failures from every dialect
// in use: GORM's translated error, raw PostgreSQL errors and SQLite messages.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
