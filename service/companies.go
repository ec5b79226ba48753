package service

import (
	"context"
	"strings"

	"food-ordering-api/errs"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

type CompanyService struct {
	companies store.CompanyRepository
	users     store.UserRepository
	opts      Options
	logger    *zap.SugaredLogger
}

func NewCompanyService(companies store.CompanyRepository, users store.UserRepository, opts Options, logger *zap.SugaredLogger) *CompanyService {
	return &CompanyService{companies: companies, users: users, opts: opts, logger: logger}
}

type CompanyInput struct {
	Name       string
	Email      string `copier:"-"`
	Photo      string
	ServiceFee *float64 `copier:"-"`
	IsActive   *bool    `copier:"-"`
	// AdminUserID links an existing user to the company as its company-admin.
	AdminUserID string `copier:"-"`
}

type StaffInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// StaffList is a company together with its delivery staff.
type StaffList struct {
	Company *models.DeliveryCompany `json:"company"`
	Staffs  []models.User           `json:"staffs"`
	Count   int                     `json:"count"`
}

func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (*models.DeliveryCompany, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, errs.Invalid("name and email are required")
	}
	company := &models.DeliveryCompany{IsActive: true}
	if err := apply(company, in); err != nil {
		return nil, err
	}

	var admin *models.User
	if in.AdminUserID != "" {
		var err error
		if admin, err = fetch(ctx, s.users.GetByID, in.AdminUserID, "User"); err != nil {
			return nil, err
		}
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, saveErr(err, "Company email already exists")
	}
	if admin != nil {
		admin.Role = models.RoleCompanyAdmin
		admin.CompanyID = company.ID
		if err := s.users.Update(ctx, admin); err != nil {
			return nil, saveErr(err, "")
		}
	}
	s.logger.Infow("delivery company created", "company_id", company.ID)
	return company, nil
}

func apply(company *models.DeliveryCompany, in CompanyInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := copier.CopyWithOption(company, &in, copier.Option{IgnoreEmpty: true}); err != nil {
		return errs.Internal(err)
	}
	if in.Email != "" {
		company.Email = normalizeEmail(in.Email)
	}
	if in.ServiceFee != nil {
		if *in.ServiceFee < 0 {
			return errs.Invalid("serviceFee must not be negative")
		}
		company.ServiceFee = *in.ServiceFee
	}
	if in.IsActive != nil {
		company.IsActive = *in.IsActive
	}
	return nil
}

func (s *CompanyService) List(ctx context.Context, activeOnly bool) ([]models.DeliveryCompany, error) {
	list, err := s.companies.List(ctx, activeOnly)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return list, nil
}

func (s *CompanyService) Get(ctx context.Context, id string) (*models.DeliveryCompany, error) {
	return fetch(ctx, s.companies.GetByID, id, "Delivery company")
}

func (s *CompanyService) Update(ctx context.Context, actor policy.Actor, id string, in CompanyInput) (*models.DeliveryCompany, error) {
	company, err := fetch(ctx, s.companies.GetByID, id, "Delivery company")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ManageCompany, policy.Resource{CompanyID: company.ID}); err != nil {
		return nil, err
	}
	if in.AdminUserID != "" {
		return nil, errs.Invalid("adminUserId can only be set when the company is created")
	}
	if in.IsActive != nil && actor.Role != models.RoleAdmin {
		return nil, errs.Forbidden("Only admins can change company activation")
	}
	if err := apply(company, in); err != nil {
		return nil, err
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, saveErr(err, "Company email already exists")
	}
	return company, nil
}

func (s *CompanyService) Delete(ctx context.Context, id string) error {
	company, err := fetch(ctx, s.companies.GetByID, id, "Delivery company")
	if err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, company.ID); err != nil {
		return saveErr(err, "")
	}
	s.logger.Infow("delivery company deleted", "company_id", company.ID)
	return nil
}

// AddStaff creates a company-staff account for the company.
func (s *CompanyService) AddStaff(ctx context.Context, actor policy.Actor, companyID string, in StaffInput) (*models.User, error) {
	company, err := fetch(ctx, s.companies.GetByID, companyID, "Delivery company")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ManageCompany, policy.Resource{CompanyID: company.ID}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, errs.Invalid("name, email and password are required")
	}
	hash, err := hashPassword(in.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	staff := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         models.RoleCompanyStaff,
		Phone:        in.Phone,
		Address:      in.Address,
		CompanyID:    company.ID,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, staff); err != nil {
		return nil, saveErr(err, "Email already registered")
	}
	if _, err := s.refreshStaffCount(ctx, company); err != nil {
		s.logger.Warnw("failed to refresh staff count", "company_id", company.ID, "error", err)
	}
	return staff, nil
}

// ListStaffs returns the company's staff with the count aggregate.
func (s *CompanyService) ListStaffs(ctx context.Context, actor policy.Actor, companyID string) (*StaffList, error) {
	company, err := fetch(ctx, s.companies.GetByID, companyID, "Delivery company")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ViewCompany, policy.Resource{CompanyID: company.ID}); err != nil {
		return nil, err
	}
	staffs, err := s.users.List(ctx, store.UserFilter{Role: models.RoleCompanyStaff, CompanyID: company.ID})
	if err != nil {
		return nil, errs.Internal(err)
	}
	if company.StaffCount != len(staffs) {
		company.StaffCount = len(staffs)
		if err := s.companies.Update(ctx, company); err != nil {
			s.logger.Warnw("failed to cache staff count", "company_id", company.ID, "error", err)
		}
	}
	return &StaffList{Company: company, Staffs: staffs, Count: len(staffs)}, nil
}

func (s *CompanyService) refreshStaffCount(ctx context.Context, company *models.DeliveryCompany) (int, error) {
	n, err := s.users.Count(ctx, store.UserFilter{Role: models.RoleCompanyStaff, CompanyID: company.ID})
	if err != nil {
		return 0, err
	}
	company.StaffCount = int(n)
	return company.StaffCount, s.companies.Update(ctx, company)
}
