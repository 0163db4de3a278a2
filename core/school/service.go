package school

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedSchools ...School) error
		CreateSchool(ctx context.Context, sch School) (School, error)
		// QuerySchools returns schools in insertion order; a restricted scope
		// narrows the result to the scope's school itself.
		QuerySchools(ctx context.Context, scope core.Scope) ([]School, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		// SchoolExists reports whether a school with the given id exists.
		SchoolExists(ctx context.Context, id string) (bool, error)
		UpdateSchool(ctx context.Context, sch School) (School, error)
		DeleteSchoolByID(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string, exclSchools ...School) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclSchools...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Message: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSchool) (School, error) {
	if err := ns.Validate(); err != nil {
		return School{}, err
	}
	if err := svc.checkUniqueness(ctx, ns.Email); err != nil {
		return School{}, err
	}

	now := time.Now().UTC()
	sch := School{
		Name:          ns.Name,
		Address:       ns.Address,
		ContactNumber: ns.ContactNumber,
		Email:         ns.Email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateSchool(ctx, sch)
}

func (svc *Service) Query(ctx context.Context, ident account.Identity) ([]School, error) {
	return svc.repo.QuerySchools(ctx, ident.Scope())
}

func (svc *Service) Get(ctx context.Context, ident account.Identity, id string) (School, error) {
	if err := core.CheckID(id); err != nil {
		return School{}, err
	}
	sch, err := svc.repo.GetSchoolByID(ctx, id)
	if err != nil {
		return School{}, err
	}
	if !ident.OwnsSchool(sch.ID) {
		return School{}, core.NewPermissionError("Unauthorized access to this school")
	}
	return sch, nil
}

func (svc *Service) Update(ctx context.Context, ident account.Identity, id string, us UpdateSchool) (School, error) {
	sch, err := svc.Get(ctx, ident, id)
	if err != nil {
		return School{}, err
	}
	if err := us.Validate(sch); err != nil {
		return School{}, err
	}
	if err := svc.checkUniqueness(ctx, us.Email, sch); err != nil {
		return School{}, err
	}

	sch.Name = us.Name
	sch.Address = us.Address
	sch.ContactNumber = us.ContactNumber
	sch.Email = us.Email
	sch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSchool(ctx, sch)
}

func (svc *Service) Delete(ctx context.Context, ident account.Identity, id string) error {
	sch, err := svc.Get(ctx, ident, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteSchoolByID(ctx, sch.ID)
}
