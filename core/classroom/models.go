package classroom

import (
	"time"

	"github.com/trezcool/shule/core"
)

var ErrNotFound = core.NewNotFoundError("Classroom not found")

type Classroom struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Resources []string `json:"resources"`
	SchoolID  string   `json:"school_id"`
	// SchoolName is resolved by an explicit secondary lookup on reads; it is
	// never persisted.
	SchoolName string    `json:"school_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewClassroom contains information needed to create a new Classroom.
// SchoolID is overridden with the caller's own school for school-bound roles
// before validation runs.
type NewClassroom struct {
	Name      string   `json:"name" validate:"required"`
	Capacity  int      `json:"capacity" validate:"required,min=1"`
	Resources []string `json:"resources"`
	SchoolID  string   `json:"school_id" validate:"required"`
}

func (nc *NewClassroom) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return core.CheckID(nc.SchoolID)
}

// UpdateClassroom defines what information may be provided to modify an
// existing Classroom. Only supplied fields change; the owning school is
// immutable.
type UpdateClassroom struct {
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity" validate:"omitempty,min=1"`
	Resources []string `json:"resources"`
}

func (uc *UpdateClassroom) Validate(origRoom Classroom) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = origRoom.Name
	}
	if uc.Capacity == 0 {
		uc.Capacity = origRoom.Capacity
	}
	if uc.Resources == nil {
		uc.Resources = origRoom.Resources
	}
	return core.Validate.Struct(uc)
}
