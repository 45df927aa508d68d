package config

import (
	"errors"
	"fmt"
	"os"

	"blinds-backend/internal/model"

	"gopkg.in/yaml.v3"
)

// DefaultCompanyProfile is used when neither the database nor the YAML file has one.
func DefaultCompanyProfile() *model.CompanyProfile {
	return &model.CompanyProfile{
		ID:                 model.CompanyProfileID,
		Name:               "All About Blinds",
		Address:            "123 Blind Street",
		City:               "Blindville",
		Postcode:           "BL1 2ND",
		Phone:              "01234 567890",
		Email:              "info@allaboutblinds.com",
		Website:            "www.allaboutblinds.com",
		VATNumber:          "GB123456789",
		RegistrationNumber: "12345678",
		BankName:           "Blind Bank",
		AccountName:        "All About Blinds",
		AccountNumber:      "12345678",
		SortCode:           "12-34-56",
	}
}

type companyFile struct {
	Company model.CompanyProfile `yaml:"company"`
}

// LoadCompanyProfile reads the seed profile from a YAML file. Fields the file leaves
// out keep their default values; a missing file yields the defaults.
func LoadCompanyProfile(path string) (*model.CompanyProfile, error) {
	profile := DefaultCompanyProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return profile, nil
		}
		return nil, fmt.Errorf("failed to read company profile: %w", err)
	}

	file := companyFile{Company: *profile}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse company profile %s: %w", path, err)
	}
	file.Company.ID = model.CompanyProfileID
	return &file.Company, nil
}
