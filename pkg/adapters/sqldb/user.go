package sqldb

import (
	"context"
	"strings"

	"github.com/javanetict/jnsuite/pkg/model"
	"gorm.io/gorm"
)

// UserRepository stores accounts and their activity trail.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Update saves every field of the user.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// ByID returns a user by primary key.
func (r *UserRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ByEmail returns a user by email, case-insensitively.
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UsernameTaken reports whether a username is in use.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// AddActivity appends to the activity trail.
func (r *UserRepository) AddActivity(ctx context.Context, a *model.UserActivity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Activities returns a user's activities, newest first. A positive limit caps the result.
func (r *UserRepository) Activities(ctx context.Context, userID string, limit int) ([]model.UserActivity, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []model.UserActivity
	err := q.Find(&out).Error
	return out, err
}
