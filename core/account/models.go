package account

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Role is the closed set of access levels an Account may hold. Authorization
// decisions switch over it exhaustively; adding a role surfaces every site
// that needs updating.
type Role string

const (
	RoleSuperAdmin  Role = "superadmin"
	RoleSchoolAdmin Role = "school_admin"
	RoleStudent     Role = "student"
)

var AllRoles = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleStudent}

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleSchoolAdmin, RoleStudent:
		return true
	}
	return false
}

// SchoolBound reports whether the role pins the account to a single school
// for the lifetime of the account.
func (r Role) SchoolBound() bool {
	switch r {
	case RoleSchoolAdmin, RoleStudent:
		return true
	case RoleSuperAdmin:
	}
	return false
}

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("Account not found")
	ErrEmailExists = errors.New("An account with this email already exists")
)

type Account struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Role         Role        `json:"role"`
	SchoolID     null.String `json:"school_id"`
	StudentID    null.String `json:"student_id"`
	PasswordHash []byte      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewAccount contains information needed to create a new Account.
type NewAccount struct {
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=8"`
	Role      Role        `json:"role" validate:"required,role"`
	SchoolID  null.String `json:"school_id"`
	StudentID null.String `json:"student_id"`
}

func (na *NewAccount) Validate() error {
	na.Email = core.CleanString(na.Email, true /* lower */)

	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if na.SchoolID.Valid {
		if err := core.CheckID(na.SchoolID.String); err != nil {
			return err
		}
	}
	if na.StudentID.Valid {
		if err := core.CheckID(na.StudentID.String); err != nil {
			return err
		}
	}
	return nil
}

// UpdateAccount defines what information may be provided to modify an
// existing Account. Role and school affiliation are pinned at creation and
// cannot be reassigned.
type UpdateAccount struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (ua *UpdateAccount) Validate(origAcct Account) error {
	email := core.CleanString(ua.Email, true /* lower */)
	if email != "" {
		ua.Email = email
	} else {
		ua.Email = origAcct.Email
	}
	return core.Validate.Struct(ua)
}
