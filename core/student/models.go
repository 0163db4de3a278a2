package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

var ErrNotFound = core.NewNotFoundError("Student not found")

type Student struct {
	ID             string      `json:"id"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	DateOfBirth    time.Time   `json:"date_of_birth"`
	EnrollmentDate time.Time   `json:"enrollment_date"`
	SchoolID       string      `json:"school_id"`
	ClassroomID    null.String `json:"classroom_id"`
	// SchoolName and ClassroomName are resolved by explicit secondary lookups
	// on reads; they are never persisted.
	SchoolName    string    `json:"school_name,omitempty"`
	ClassroomName string    `json:"classroom_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
// SchoolID is overridden with the caller's own school for school-bound roles
// before validation runs. EnrollmentDate defaults to the creation time.
type NewStudent struct {
	FirstName      string      `json:"first_name" validate:"required"`
	LastName       string      `json:"last_name" validate:"required"`
	DateOfBirth    time.Time   `json:"date_of_birth" validate:"required"`
	EnrollmentDate time.Time   `json:"enrollment_date"`
	SchoolID       string      `json:"school_id" validate:"required"`
	ClassroomID    null.String `json:"classroom_id"`
}

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	if err := core.CheckID(ns.SchoolID); err != nil {
		return err
	}
	if ns.ClassroomID.Valid {
		return core.CheckID(ns.ClassroomID.String)
	}
	return nil
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Only supplied fields change; the owning school is
// immutable. A null classroom_id cannot be told apart from an omitted one
// once unmarshalled, so an update never detaches a student from their
// classroom; detachment only happens when the classroom itself is deleted.
type UpdateStudent struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DateOfBirth time.Time   `json:"date_of_birth"`
	ClassroomID null.String `json:"classroom_id"`
}

func (us *UpdateStudent) Validate(origStu Student) error {
	if first := core.CleanString(us.FirstName); first != "" {
		us.FirstName = first
	} else {
		us.FirstName = origStu.FirstName
	}
	if last := core.CleanString(us.LastName); last != "" {
		us.LastName = last
	} else {
		us.LastName = origStu.LastName
	}
	if us.DateOfBirth.IsZero() {
		us.DateOfBirth = origStu.DateOfBirth
	}
	if !us.ClassroomID.Valid {
		us.ClassroomID = origStu.ClassroomID
	}
	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	if us.ClassroomID.Valid {
		return core.CheckID(us.ClassroomID.String)
	}
	return nil
}

// TransferStudent moves a student to another classroom of their school.
type TransferStudent struct {
	StudentID      string `json:"student_id" validate:"required"`
	NewClassroomID string `json:"new_classroom_id" validate:"required"`
}

func (ts *TransferStudent) Validate() error {
	if err := core.Validate.Struct(ts); err != nil {
		return err
	}
	return core.CheckID(ts.StudentID, ts.NewClassroomID)
}
