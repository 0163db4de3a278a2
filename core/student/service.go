package student

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/school"
)

var (
	errSchoolNotFound     = "School not found"
	errClassroomNotFound  = "Classroom not found"
	errClassroomNotInSchl = "Classroom belongs to a different school"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		// QueryStudents returns students in insertion order, restricted to the
		// scope's school when one is set.
		QueryStudents(ctx context.Context, scope core.Scope) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// StudentExists reports whether a student with the given id exists.
		StudentExists(ctx context.Context, id string) (bool, error)
		UpdateStudent(ctx context.Context, stu Student) (Student, error)
		DeleteStudentByID(ctx context.Context, id string) error
	}

	Service struct {
		repo          Repository
		schoolRepo    school.Repository
		classroomRepo classroom.Repository
	}
)

func NewService(repo Repository, schoolRepo school.Repository, classroomRepo classroom.Repository) *Service {
	return &Service{repo: repo, schoolRepo: schoolRepo, classroomRepo: classroomRepo}
}

// Create persists a new student. For a school admin the owning school is
// always the admin's own school; any submitted value is discarded. The
// classroom, when given, must belong to that school.
func (svc *Service) Create(ctx context.Context, ident account.Identity, ns NewStudent) (Student, error) {
	if ident.Role == account.RoleSchoolAdmin {
		ns.SchoolID = ident.SchoolID.String
	}
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	if _, err := svc.schoolRepo.GetSchoolByID(ctx, ns.SchoolID); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return Student{}, core.NewValidationError(nil, core.FieldError{Field: "school_id", Message: errSchoolNotFound})
		}
		return Student{}, errors.Wrap(err, "finding school by ID")
	}
	if ns.ClassroomID.Valid {
		if _, err := svc.getSchoolClassroom(ctx, ns.SchoolID, ns.ClassroomID.String, "classroom_id"); err != nil {
			return Student{}, err
		}
	}

	now := time.Now().UTC()
	stu := Student{
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		DateOfBirth:    ns.DateOfBirth,
		EnrollmentDate: ns.EnrollmentDate,
		SchoolID:       ns.SchoolID,
		ClassroomID:    ns.ClassroomID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if stu.EnrollmentDate.IsZero() {
		stu.EnrollmentDate = now
	}
	stu, err := svc.repo.CreateStudent(ctx, stu)
	if err != nil {
		return Student{}, err
	}
	return svc.resolveNames(ctx, stu)
}

func (svc *Service) Query(ctx context.Context, ident account.Identity) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, ident.Scope())
	if err != nil {
		return nil, err
	}
	for i, stu := range students {
		if students[i], err = svc.resolveNames(ctx, stu); err != nil {
			return nil, err
		}
	}
	return students, nil
}

func (svc *Service) Get(ctx context.Context, ident account.Identity, id string) (Student, error) {
	stu, err := svc.get(ctx, ident, id)
	if err != nil {
		return Student{}, err
	}
	return svc.resolveNames(ctx, stu)
}

func (svc *Service) Update(ctx context.Context, ident account.Identity, id string, us UpdateStudent) (Student, error) {
	stu, err := svc.get(ctx, ident, id)
	if err != nil {
		return Student{}, err
	}
	if err := us.Validate(stu); err != nil {
		return Student{}, err
	}
	if us.ClassroomID.Valid && us.ClassroomID != stu.ClassroomID {
		if _, err := svc.getSchoolClassroom(ctx, stu.SchoolID, us.ClassroomID.String, "classroom_id"); err != nil {
			return Student{}, err
		}
	}

	stu.FirstName = us.FirstName
	stu.LastName = us.LastName
	stu.DateOfBirth = us.DateOfBirth
	stu.ClassroomID = us.ClassroomID
	stu.UpdatedAt = time.Now().UTC()
	stu, err = svc.repo.UpdateStudent(ctx, stu)
	if err != nil {
		return Student{}, err
	}
	return svc.resolveNames(ctx, stu)
}

func (svc *Service) Delete(ctx context.Context, ident account.Identity, id string) error {
	stu, err := svc.get(ctx, ident, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteStudentByID(ctx, stu.ID)
}

// Transfer reassigns a student to another classroom of their current school.
// The ownership check runs against the student's current school; the school
// reference itself never changes.
func (svc *Service) Transfer(ctx context.Context, ident account.Identity, ts TransferStudent) (Student, error) {
	if err := ts.Validate(); err != nil {
		return Student{}, err
	}
	stu, err := svc.get(ctx, ident, ts.StudentID)
	if err != nil {
		return Student{}, err
	}
	room, err := svc.getSchoolClassroom(ctx, stu.SchoolID, ts.NewClassroomID, "new_classroom_id")
	if err != nil {
		return Student{}, err
	}

	stu.ClassroomID = null.StringFrom(room.ID)
	stu.UpdatedAt = time.Now().UTC()
	stu, err = svc.repo.UpdateStudent(ctx, stu)
	if err != nil {
		return Student{}, err
	}
	return svc.resolveNames(ctx, stu)
}

// get loads a student and runs the ownership check; existence is resolved
// first so a cross-school caller cannot probe which ids exist.
func (svc *Service) get(ctx context.Context, ident account.Identity, id string) (Student, error) {
	if err := core.CheckID(id); err != nil {
		return Student{}, err
	}
	stu, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !ident.OwnsSchool(stu.SchoolID) {
		return Student{}, core.NewPermissionError("Unauthorized access to this student")
	}
	return stu, nil
}

// getSchoolClassroom resolves a classroom that must belong to the given
// school, surfacing failures as field-level validation errors.
func (svc *Service) getSchoolClassroom(ctx context.Context, schoolID, roomID, field string) (classroom.Classroom, error) {
	room, err := svc.classroomRepo.GetClassroomByID(ctx, roomID)
	if err != nil {
		if errors.Cause(err) == classroom.ErrNotFound {
			return classroom.Classroom{}, core.NewValidationError(nil, core.FieldError{Field: field, Message: errClassroomNotFound})
		}
		return classroom.Classroom{}, errors.Wrap(err, "finding classroom by ID")
	}
	if room.SchoolID != schoolID {
		return classroom.Classroom{}, core.NewValidationError(nil, core.FieldError{Field: field, Message: errClassroomNotInSchl})
	}
	return room, nil
}

func (svc *Service) resolveNames(ctx context.Context, stu Student) (Student, error) {
	sch, err := svc.schoolRepo.GetSchoolByID(ctx, stu.SchoolID)
	if err == nil {
		stu.SchoolName = sch.Name
	} else if errors.Cause(err) != school.ErrNotFound {
		return Student{}, errors.Wrap(err, "finding school by ID")
	}
	if stu.ClassroomID.Valid {
		room, err := svc.classroomRepo.GetClassroomByID(ctx, stu.ClassroomID.String)
		if err == nil {
			stu.ClassroomName = room.Name
		} else if errors.Cause(err) != classroom.ErrNotFound {
			return Student{}, errors.Wrap(err, "finding classroom by ID")
		}
	}
	return stu, nil
}
