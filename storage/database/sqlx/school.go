package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/school"
)

const schoolColumns = `id, name, address, contact_number, email, created_at, updated_at`

type schoolRepository struct {
	db *sqlx.DB
}

// interface compliance checks
var (
	_ school.Repository      = (*schoolRepository)(nil)
	_ account.SchoolResolver = (*schoolRepository)(nil)
)

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

type schoolRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Address       string    `db:"address"`
	ContactNumber string    `db:"contact_number"`
	Email         string    `db:"email"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r schoolRow) unpack() school.School {
	return school.School{
		ID:            r.ID,
		Name:          r.Name,
		Address:       r.Address,
		ContactNumber: r.ContactNumber,
		Email:         r.Email,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func packSchool(sch school.School) schoolRow {
	return schoolRow{
		ID:            sch.ID,
		Name:          sch.Name,
		Address:       sch.Address,
		ContactNumber: sch.ContactNumber,
		Email:         sch.Email,
		CreatedAt:     sch.CreatedAt.UTC(),
		UpdatedAt:     sch.UpdatedAt.UTC(),
	}
}

func (repo schoolRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedSchools ...school.School) error {
	q := `SELECT EXISTS (SELECT 1 FROM school WHERE email = ?`
	args := []interface{}{email}
	if len(excludedSchools) > 0 {
		ids := make([]string, 0, len(excludedSchools))
		for _, sch := range excludedSchools {
			ids = append(ids, sch.ID)
		}
		q += ` AND id NOT IN (?)`
		args = append(args, ids)
	}
	q += `)`

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}
	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return school.ErrEmailExists
	}
	return nil
}

func (repo schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	sch.ID = uuid.New().String()
	q := `INSERT INTO school (` + schoolColumns + `)
		  VALUES (:id, :name, :address, :contact_number, :email, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, packSchool(sch)); err != nil {
		return school.School{}, trapUniqueErr(err, school.ErrEmailExists, "email", "creating school")
	}
	return sch, nil
}

func (repo schoolRepository) QuerySchools(ctx context.Context, scope core.Scope) ([]school.School, error) {
	q := `SELECT ` + schoolColumns + ` FROM school`
	args := make([]interface{}, 0, 1)
	if scope.Restricted() {
		// the scoping key of a school is its own id
		q += ` WHERE id = $1`
		args = append(args, scope.SchoolID.String)
	}
	q += ` ORDER BY created_at, id`

	var rows []schoolRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	schools := make([]school.School, 0, len(rows))
	for _, r := range rows {
		schools = append(schools, r.unpack())
	}
	return schools, nil
}

func (repo schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	var row schoolRow
	q := `SELECT ` + schoolColumns + ` FROM school WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return school.School{}, trapNoRowsErr(err, school.ErrNotFound, "getting school by ID")
	}
	return row.unpack(), nil
}

func (repo schoolRepository) SchoolExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM school WHERE id = $1)`
	if err := repo.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, errors.Wrap(err, "checking school existence")
	}
	return exists, nil
}

func (repo schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	q := `UPDATE school
		  SET name = :name, address = :address, contact_number = :contact_number, email = :email, updated_at = :updated_at
		  WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, packSchool(sch))
	if err != nil {
		return school.School{}, trapUniqueErr(err, school.ErrEmailExists, "email", "updating school")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.School{}, school.ErrNotFound
	}
	return sch, nil
}

func (repo schoolRepository) DeleteSchoolByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM school WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting school")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.ErrNotFound
	}
	return nil
}
