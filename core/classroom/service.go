package classroom

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/school"
)

var errSchoolNotFound = "School not found"

type (
	Repository interface {
		CreateClassroom(ctx context.Context, room Classroom) (Classroom, error)
		// QueryClassrooms returns classrooms in insertion order, restricted to
		// the scope's school when one is set.
		QueryClassrooms(ctx context.Context, scope core.Scope) ([]Classroom, error)
		GetClassroomByID(ctx context.Context, id string) (Classroom, error)
		UpdateClassroom(ctx context.Context, room Classroom) (Classroom, error)
		DeleteClassroomByID(ctx context.Context, id string) error
	}

	Service struct {
		repo       Repository
		schoolRepo school.Repository
	}
)

func NewService(repo Repository, schoolRepo school.Repository) *Service {
	return &Service{repo: repo, schoolRepo: schoolRepo}
}

// Create persists a new classroom. For a school admin the owning school is
// always the admin's own school; any submitted value is discarded.
func (svc *Service) Create(ctx context.Context, ident account.Identity, nc NewClassroom) (Classroom, error) {
	if ident.Role == account.RoleSchoolAdmin {
		nc.SchoolID = ident.SchoolID.String
	}
	if err := nc.Validate(); err != nil {
		return Classroom{}, err
	}
	sch, err := svc.getSchool(ctx, nc.SchoolID)
	if err != nil {
		return Classroom{}, err
	}

	now := time.Now().UTC()
	room := Classroom{
		Name:      nc.Name,
		Capacity:  nc.Capacity,
		Resources: nc.Resources,
		SchoolID:  nc.SchoolID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if room.Resources == nil {
		room.Resources = []string{}
	}
	room, err = svc.repo.CreateClassroom(ctx, room)
	if err != nil {
		return Classroom{}, err
	}
	room.SchoolName = sch.Name
	return room, nil
}

func (svc *Service) Query(ctx context.Context, ident account.Identity) ([]Classroom, error) {
	rooms, err := svc.repo.QueryClassrooms(ctx, ident.Scope())
	if err != nil {
		return nil, err
	}
	return svc.resolveSchoolNames(ctx, rooms)
}

func (svc *Service) Get(ctx context.Context, ident account.Identity, id string) (Classroom, error) {
	room, err := svc.get(ctx, ident, id)
	if err != nil {
		return Classroom{}, err
	}
	return svc.resolveSchoolName(ctx, room)
}

func (svc *Service) Update(ctx context.Context, ident account.Identity, id string, uc UpdateClassroom) (Classroom, error) {
	room, err := svc.get(ctx, ident, id)
	if err != nil {
		return Classroom{}, err
	}
	if err := uc.Validate(room); err != nil {
		return Classroom{}, err
	}

	room.Name = uc.Name
	room.Capacity = uc.Capacity
	room.Resources = uc.Resources
	room.UpdatedAt = time.Now().UTC()
	room, err = svc.repo.UpdateClassroom(ctx, room)
	if err != nil {
		return Classroom{}, err
	}
	return svc.resolveSchoolName(ctx, room)
}

func (svc *Service) Delete(ctx context.Context, ident account.Identity, id string) error {
	room, err := svc.get(ctx, ident, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteClassroomByID(ctx, room.ID)
}

// get loads a classroom and runs the ownership check; existence is resolved
// first so a cross-school caller cannot probe which ids exist.
func (svc *Service) get(ctx context.Context, ident account.Identity, id string) (Classroom, error) {
	if err := core.CheckID(id); err != nil {
		return Classroom{}, err
	}
	room, err := svc.repo.GetClassroomByID(ctx, id)
	if err != nil {
		return Classroom{}, err
	}
	if !ident.OwnsSchool(room.SchoolID) {
		return Classroom{}, core.NewPermissionError("Unauthorized access to this classroom")
	}
	return room, nil
}

func (svc *Service) getSchool(ctx context.Context, id string) (school.School, error) {
	sch, err := svc.schoolRepo.GetSchoolByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return school.School{}, core.NewValidationError(nil, core.FieldError{Field: "school_id", Message: errSchoolNotFound})
		}
		return school.School{}, errors.Wrap(err, "finding school by ID")
	}
	return sch, nil
}

func (svc *Service) resolveSchoolName(ctx context.Context, room Classroom) (Classroom, error) {
	sch, err := svc.schoolRepo.GetSchoolByID(ctx, room.SchoolID)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return room, nil
		}
		return Classroom{}, errors.Wrap(err, "finding school by ID")
	}
	room.SchoolName = sch.Name
	return room, nil
}

func (svc *Service) resolveSchoolNames(ctx context.Context, rooms []Classroom) ([]Classroom, error) {
	names := make(map[string]string)
	for i, room := range rooms {
		name, ok := names[room.SchoolID]
		if !ok {
			resolved, err := svc.resolveSchoolName(ctx, room)
			if err != nil {
				return nil, err
			}
			name = resolved.SchoolName
			names[room.SchoolID] = name
		}
		rooms[i].SchoolName = name
	}
	return rooms, nil
}
