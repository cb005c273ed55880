package repository

import (
	"context"
	"errors"

	"github.com/codealchemist/recruiter-dashboard/internal/model"
	"gorm.io/gorm"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db}
}

// CreateChallenge only adds rows; challenges are never updated from here.
func (r *ChallengeRepository) CreateChallenge(ctx context.Context, challenge *model.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *ChallengeRepository) FindChallengeByID(ctx context.Context, id string) (*model.Challenge, error) {
	var c model.Challenge
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChallengeRepository) GetChallenges(ctx context.Context, offset, limit int) ([]model.Challenge, int64, error) {
	var (
		challenges []model.Challenge
		total      int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Challenge{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&challenges).Error
	return challenges, total, err
}
