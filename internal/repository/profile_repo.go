package repository

import (
	"context"
	"fmt"

	"blinds-backend/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository persists the single company profile row.
type ProfileRepository interface {
	Get(ctx context.Context) (*model.CompanyProfile, error)
	Save(ctx context.Context, profile *model.CompanyProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context) (*model.CompanyProfile, error) {
	var profile model.CompanyProfile
	if err := GetDB(ctx, r.db).First(&profile, model.CompanyProfileID).Error; err != nil {
		return nil, fmt.Errorf("company profile: %w", translate(err))
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *model.CompanyProfile) error {
	profile.ID = model.CompanyProfileID
	return GetDB(ctx, r.db).Save(profile).Error
}
