package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

const CompaniesFileName = "companies.yml"

// CompaniesFile lets the board lists live apart from the main config.
type CompaniesFile struct {
	Lever      []Company `yaml:"lever"`
	Greenhouse []Company `yaml:"greenhouse"`

	SmartRecruiters []Company     `yaml:"smartrecruiters"`
	Workday         []WorkdaySite `yaml:"workday"`
}

// OverlayCompanies replaces the board company lists with the ones in path.
// A missing file leaves cfg untouched.
func OverlayCompanies(cfg *Config, companiesPath string) error {
	b, err := os.ReadFile(companiesPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var cf CompaniesFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return err
	}

	if len(cf.Greenhouse) > 0 {
		cfg.Sources.Greenhouse.Companies = cf.Greenhouse
	}
	if len(cf.Lever) > 0 {
		cfg.Sources.Lever.Companies = cf.Lever
	}
	if len(cf.SmartRecruiters) > 0 {
		cfg.Sources.SmartRecruiters.Companies = cf.SmartRecruiters
	}
	if len(cf.Workday) > 0 {
		cfg.Sources.Workday.Sites = cf.Workday
	}
	return nil
}
