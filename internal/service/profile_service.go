package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"
	"blinds-backend/internal/repository"
)

// MaxLogoSize caps uploaded logo images.
const MaxLogoSize = 2 << 20

var allowedLogoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// --- DTOs ---

type ProfileRequest struct {
	Name               string `json:"name" binding:"required"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Postcode           string `json:"postcode"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	Website            string `json:"website"`
	VATNumber          string `json:"vat_number"`
	RegistrationNumber string `json:"registration_number"`
	BankName           string `json:"bank_name"`
	AccountName        string `json:"account_name"`
	AccountNumber      string `json:"account_number"`
	SortCode           string `json:"sort_code"`
	PaymentTerms       string `json:"payment_terms"`
}

type ProfileResponse struct {
	ProfileRequest
	HasLogo   bool       `json:"has_logo"`
	LogoType  string     `json:"logo_type,omitempty"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// --- Interface ---

type ProfileService interface {
	GetProfile(ctx context.Context) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, req ProfileRequest) (ProfileResponse, error)
	UploadLogo(ctx context.Context, data []byte) (ProfileResponse, error)
	DeleteLogo(ctx context.Context) (ProfileResponse, error)
	Logo(ctx context.Context) ([]byte, string, error)
	// Current returns the stored profile, or the configured defaults when none is stored.
	Current(ctx context.Context) (*model.CompanyProfile, error)
	// Seed stores the defaults if no profile has been saved yet.
	Seed(ctx context.Context) error
}

// --- Implementation ---

type profileService struct {
	profileRepo repository.ProfileRepository
	defaults    model.CompanyProfile
}

func NewProfileService(profileRepo repository.ProfileRepository, defaults *model.CompanyProfile) ProfileService {
	s := &profileService{profileRepo: profileRepo}
	if defaults != nil {
		s.defaults = *defaults
	}
	return s
}

func (s *profileService) Current(ctx context.Context) (*model.CompanyProfile, error) {
	profile, err := s.profileRepo.Get(ctx)
	if errors.Is(err, e.ErrNotFound) {
		fallback := s.defaults
		return &fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Seed(ctx context.Context) error {
	_, err := s.profileRepo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return err
	}
	seed := s.defaults
	return s.profileRepo.Save(ctx, &seed)
}

func (s *profileService) GetProfile(ctx context.Context) (ProfileResponse, error) {
	profile, err := s.Current(ctx)
	if err != nil {
		return ProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, req ProfileRequest) (ProfileResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return ProfileResponse{}, invalid("name is required")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return ProfileResponse{}, err
	}

	profile, err := s.Current(ctx)
	if err != nil {
		return ProfileResponse{}, err
	}
	profile.Name = strings.TrimSpace(req.Name)
	profile.Address = req.Address
	profile.City = req.City
	profile.Postcode = req.Postcode
	profile.Phone = req.Phone
	profile.Email = email
	profile.Website = req.Website
	profile.VATNumber = req.VATNumber
	profile.RegistrationNumber = req.RegistrationNumber
	profile.BankName = req.BankName
	profile.AccountName = req.AccountName
	profile.AccountNumber = req.AccountNumber
	profile.SortCode = req.SortCode
	profile.PaymentTerms = req.PaymentTerms

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return ProfileResponse{}, fmt.Errorf("failed to save company profile: %w", err)
	}
	return toProfileResponse(profile), nil
}

// UploadLogo stores a PNG or JPEG logo. The type is sniffed from the bytes, not trusted
// from the client.
func (s *profileService) UploadLogo(ctx context.Context, data []byte) (ProfileResponse, error) {
	if len(data) == 0 {
		return ProfileResponse{}, invalid("logo file is empty")
	}
	if len(data) > MaxLogoSize {
		return ProfileResponse{}, invalid("logo must be at most %d bytes", MaxLogoSize)
	}
	contentType := http.DetectContentType(data)
	if !allowedLogoTypes[contentType] {
		return ProfileResponse{}, invalid("logo must be a PNG or JPEG image, got %s", contentType)
	}

	profile, err := s.Current(ctx)
	if err != nil {
		return ProfileResponse{}, err
	}
	profile.Logo = data
	profile.LogoType = contentType
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return ProfileResponse{}, fmt.Errorf("failed to save logo: %w", err)
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) DeleteLogo(ctx context.Context) (ProfileResponse, error) {
	profile, err := s.Current(ctx)
	if err != nil {
		return ProfileResponse{}, err
	}
	profile.Logo = nil
	profile.LogoType = ""
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return ProfileResponse{}, fmt.Errorf("failed to remove logo: %w", err)
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) Logo(ctx context.Context) ([]byte, string, error) {
	profile, err := s.Current(ctx)
	if err != nil {
		return nil, "", err
	}
	if !profile.HasLogo() {
		return nil, "", fmt.Errorf("logo: %w", e.ErrNotFound)
	}
	return profile.Logo, profile.LogoType, nil
}

func toProfileResponse(p *model.CompanyProfile) ProfileResponse {
	resp := ProfileResponse{
		ProfileRequest: ProfileRequest{
			Name:               p.Name,
			Address:            p.Address,
			City:               p.City,
			Postcode:           p.Postcode,
			Phone:              p.Phone,
			Email:              p.Email,
			Website:            p.Website,
			VATNumber:          p.VATNumber,
			RegistrationNumber: p.RegistrationNumber,
			BankName:           p.BankName,
			AccountName:        p.AccountName,
			AccountNumber:      p.AccountNumber,
			SortCode:           p.SortCode,
			PaymentTerms:       p.PaymentTerms,
		},
		HasLogo:  p.HasLogo(),
		LogoType: p.LogoType,
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
