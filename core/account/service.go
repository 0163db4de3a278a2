package account

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	errSchoolNotFound  = "School not found"
	errStudentNotFound = "Student not found"
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedAccounts ...Account) error
		CreateAccount(ctx context.Context, acct Account) (Account, error)
		// QueryAccounts returns accounts in insertion order, restricted to the
		// scope's school when one is set.
		QueryAccounts(ctx context.Context, scope core.Scope) ([]Account, error)
		GetAccountByID(ctx context.Context, id string) (Account, error)
		GetAccountByEmail(ctx context.Context, email string) (Account, error)
		UpdateAccount(ctx context.Context, acct Account) (Account, error)
		DeleteAccountByID(ctx context.Context, id string) error
	}

	// SchoolResolver reports whether a school exists. The school package
	// itself depends on Identity, so the lookup is narrowed down here.
	SchoolResolver interface {
		SchoolExists(ctx context.Context, id string) (bool, error)
	}

	// StudentResolver reports whether a student exists.
	StudentResolver interface {
		StudentExists(ctx context.Context, id string) (bool, error)
	}

	Service struct {
		repo     Repository
		schools  SchoolResolver
		students StudentResolver
	}
)

func NewService(repo Repository, schools SchoolResolver, students StudentResolver) *Service {
	return &Service{repo: repo, schools: schools, students: students}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string, exclAccts ...Account) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclAccts...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Message: err.Error()})
		}
		return err
	}
	return nil
}

// Create registers a new account. A school admin may only provision student
// accounts, and those are always pinned to the admin's own school regardless
// of any submitted affiliation.
func (svc *Service) Create(ctx context.Context, ident Identity, na NewAccount) (Account, error) {
	if ident.Role == RoleSchoolAdmin {
		if na.Role != RoleStudent {
			return Account{}, core.NewPermissionError("Unauthorized access")
		}
		na.SchoolID = ident.SchoolID
	}
	if err := na.Validate(); err != nil {
		return Account{}, err
	}
	if err := svc.checkRefs(ctx, na); err != nil {
		return Account{}, err
	}
	if err := svc.checkUniqueness(ctx, na.Email); err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	acct := Account{
		Email:     na.Email,
		Role:      na.Role,
		SchoolID:  na.SchoolID,
		StudentID: na.StudentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateAccount(ctx, acct)
}

// checkRefs rejects dangling affiliations, surfacing them as field-level
// validation errors.
func (svc *Service) checkRefs(ctx context.Context, na NewAccount) error {
	if na.SchoolID.Valid {
		ok, err := svc.schools.SchoolExists(ctx, na.SchoolID.String)
		if err != nil {
			return errors.Wrap(err, "checking school existence")
		}
		if !ok {
			return core.NewValidationError(nil, core.FieldError{Field: "school_id", Message: errSchoolNotFound})
		}
	}
	if na.StudentID.Valid {
		ok, err := svc.students.StudentExists(ctx, na.StudentID.String)
		if err != nil {
			return errors.Wrap(err, "checking student existence")
		}
		if !ok {
			return core.NewValidationError(nil, core.FieldError{Field: "student_id", Message: errStudentNotFound})
		}
	}
	return nil
}

func (svc *Service) Query(ctx context.Context, ident Identity) ([]Account, error) {
	return svc.repo.QueryAccounts(ctx, ident.Scope())
}

// GetByID looks an account up without any authorization check; it backs
// request authentication and the admin CLI.
func (svc *Service) GetByID(ctx context.Context, id string) (Account, error) {
	if err := core.CheckID(id); err != nil {
		return Account{}, err
	}
	return svc.repo.GetAccountByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Account, error) {
	return svc.repo.GetAccountByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Get(ctx context.Context, ident Identity, id string) (Account, error) {
	acct, err := svc.GetByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if err := svc.authorize(ident, acct); err != nil {
		return Account{}, err
	}
	return acct, nil
}

func (svc *Service) Update(ctx context.Context, ident Identity, id string, ua UpdateAccount) (Account, error) {
	acct, err := svc.Get(ctx, ident, id)
	if err != nil {
		return Account{}, err
	}
	if err := ua.Validate(acct); err != nil {
		return Account{}, err
	}
	if err := svc.checkUniqueness(ctx, ua.Email, acct); err != nil {
		return Account{}, err
	}

	acct.Email = ua.Email
	acct.UpdatedAt = time.Now().UTC()
	if ua.Password != "" {
		if err := acct.SetPassword(ua.Password); err != nil {
			return Account{}, errors.Wrap(err, "setting password")
		}
	}
	return svc.repo.UpdateAccount(ctx, acct)
}

func (svc *Service) Delete(ctx context.Context, ident Identity, id string) error {
	acct, err := svc.Get(ctx, ident, id)
	if err != nil {
		return err
	}
	// an account cannot delete itself
	if acct.ID == ident.AccountID {
		return core.NewPermissionError("Unauthorized access to this account")
	}
	return svc.repo.DeleteAccountByID(ctx, acct.ID)
}

// authorize runs the post-lookup ownership check: a superadmin passes, the
// account's owner passes, a school admin passes for accounts of their school.
func (svc *Service) authorize(ident Identity, acct Account) error {
	switch ident.Role {
	case RoleSuperAdmin:
		return nil
	case RoleSchoolAdmin:
		if acct.ID == ident.AccountID {
			return nil
		}
		if acct.SchoolID.Valid && ident.OwnsSchool(acct.SchoolID.String) {
			return nil
		}
	case RoleStudent:
		if acct.ID == ident.AccountID {
			return nil
		}
	}
	return core.NewPermissionError("Unauthorized access to this account")
}
