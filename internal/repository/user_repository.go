package repository

import (
	"context"
	"errors"

	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) FindUserByUID(ctx context.Context, uid string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUserIfMissing inserts the profile unless a row with the same uid exists.
// It reports whether a row was inserted.
func (r *UserRepository) CreateUserIfMissing(ctx context.Context, user *model.User) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetUsers returns profiles newest first.
func (r *UserRepository) GetUsers(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var (
		users []model.User
		total int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// UpdateStatusRole writes status and role and nothing else.
func (r *UserRepository) UpdateStatusRole(ctx context.Context, uid string, status model.UserStatus, role model.UserRole) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]any{"status": status, "role": role})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
