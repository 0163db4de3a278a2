package account

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	schoolRequiredTag  = "school_required"
	schoolRequiredText = "this field is required for this role"

	noSchoolTag  = "no_school"
	noSchoolText = "a superadmin cannot be affiliated to a school"

	studentRequiredTag  = "student_required"
	studentRequiredText = "this field is required for the student role"
)

func init() {
	_ = core.Validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(roleTag, roleText)

	core.Validate.RegisterStructValidation(newAccountStructValidation, NewAccount{})
	core.RegisterCustomTranslation(schoolRequiredTag, schoolRequiredText)
	core.RegisterCustomTranslation(noSchoolTag, noSchoolText)
	core.RegisterCustomTranslation(studentRequiredTag, studentRequiredText)
}

func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

// newAccountStructValidation enforces the role/affiliation coupling:
// a superadmin has no school, school-bound roles require one, and a student
// account must reference its student record.
func newAccountStructValidation(sl validator.StructLevel) {
	na := sl.Current().Interface().(NewAccount)
	if !na.Role.Valid() {
		return // the role tag reports this one
	}

	switch na.Role {
	case RoleSuperAdmin:
		if na.SchoolID.Valid {
			sl.ReportError(na.SchoolID, "school_id", "SchoolID", noSchoolTag, "")
		}
	case RoleSchoolAdmin:
		if !na.SchoolID.Valid {
			sl.ReportError(na.SchoolID, "school_id", "SchoolID", schoolRequiredTag, "")
		}
	case RoleStudent:
		if !na.SchoolID.Valid {
			sl.ReportError(na.SchoolID, "school_id", "SchoolID", schoolRequiredTag, "")
		}
		if !na.StudentID.Valid {
			sl.ReportError(na.StudentID, "student_id", "StudentID", studentRequiredTag, "")
		}
	}
}
