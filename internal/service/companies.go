package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/repository"
	"github.com/emilianohg/sitetrack/internal/session"
)

type CompanyInput struct {
	Name          string `validate:"required,max=200"`
	Address       string `validate:"max=500"`
	ContactNumber string `validate:"max=50"`
}

func (in *CompanyInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
}

type RepresentativeInput struct {
	CompanyID int64  `validate:"required"`
	Name      string `validate:"required,max=200"`
	Position  string `validate:"max=200"`
}

// AddCompany creates a company. Adding a name that already exists is not an
// error: the existing company is returned unchanged.
func (t *Tracker) AddCompany(sess *session.Session, in CompanyInput) (*models.Company, error) {
	if err := t.authorize(sess, access.ManageCompanies); err != nil {
		return nil, err
	}
	in.trim()
	if err := t.check(in); err != nil {
		return nil, err
	}

	var company *models.Company
	err := t.inTx(func(s stores) error {
		var err error
		company, err = s.companies.Create(in.Name, in.Address, in.ContactNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.companyList.Invalidate(allCompaniesKey)
	t.companies.Invalidate(company.ID)
	t.log(sess).Info("company added", zap.Int64("company_id", company.ID), zap.String("name", company.Name))
	return company, nil
}

func (t *Tracker) UpdateCompany(sess *session.Session, id int64, in CompanyInput) error {
	if err := t.authorize(sess, access.ManageCompanies); err != nil {
		return err
	}
	in.trim()
	if err := t.check(in); err != nil {
		return err
	}

	err := t.inTx(func(s stores) error {
		existing, err := s.companies.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: company %d", ErrNotFound, id)
		}

		clash, err := s.companies.GetByName(in.Name)
		if err != nil {
			return err
		}
		if clash != nil && clash.ID != id {
			return fmt.Errorf("%w: company %q already exists", ErrConflict, in.Name)
		}

		return s.companies.Update(id, in.Name, in.Address, in.ContactNumber)
	})
	if err != nil {
		return err
	}

	t.companyList.Invalidate(allCompaniesKey)
	t.companies.Invalidate(id)
	// Cached projects carry the company name.
	t.projectCache.Clear()
	t.log(sess).Info("company updated", zap.Int64("company_id", id))
	return nil
}

// GetCompany returns nil when the company does not exist.
func (t *Tracker) GetCompany(id int64) (*models.Company, error) {
	if c, ok := t.companies.Get(id); ok {
		return &c, nil
	}
	c, err := t.read.companies.GetByID(id)
	if err != nil || c == nil {
		return c, err
	}
	t.companies.Set(id, *c)
	return c, nil
}

func (t *Tracker) ListCompanies() ([]models.Company, error) {
	companies, err := t.companyList.GetOrLoad(allCompaniesKey, t.read.companies.GetAll)
	if err != nil {
		return nil, err
	}
	out := make([]models.Company, len(companies))
	copy(out, companies)
	return out, nil
}

// ListCompaniesWithStats is not cached; its counts move with every task.
func (t *Tracker) ListCompaniesWithStats() ([]repository.CompanyWithStats, error) {
	return t.read.companies.GetAllWithStats()
}

func (t *Tracker) AddRepresentative(sess *session.Session, in RepresentativeInput) (*models.Representative, error) {
	if err := t.authorize(sess, access.ManageCompanies); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Position = strings.TrimSpace(in.Position)
	if err := t.check(in); err != nil {
		return nil, err
	}

	var rep *models.Representative
	err := t.inTx(func(s stores) error {
		company, err := s.companies.GetByID(in.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: company %d", ErrReference, in.CompanyID)
		}
		rep, err = s.representatives.Create(in.CompanyID, in.Name, in.Position)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.log(sess).Info("representative added",
		zap.Int64("company_id", in.CompanyID),
		zap.Int64("representative_id", rep.ID),
	)
	return rep, nil
}

func (t *Tracker) ListRepresentatives(companyID int64) ([]models.Representative, error) {
	return t.read.representatives.GetByCompanyID(companyID)
}
