package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/student"
)

const studentColumns = `id, first_name, last_name, date_of_birth, enrollment_date, school_id, classroom_id, created_at, updated_at`

type studentRepository struct {
	db *sqlx.DB
}

// interface compliance checks
var (
	_ student.Repository      = (*studentRepository)(nil)
	_ account.StudentResolver = (*studentRepository)(nil)
)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID             string      `db:"id"`
	FirstName      string      `db:"first_name"`
	LastName       string      `db:"last_name"`
	DateOfBirth    time.Time   `db:"date_of_birth"`
	EnrollmentDate time.Time   `db:"enrollment_date"`
	SchoolID       string      `db:"school_id"`
	ClassroomID    null.String `db:"classroom_id"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r studentRow) unpack() student.Student {
	return student.Student{
		ID:             r.ID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DateOfBirth:    r.DateOfBirth,
		EnrollmentDate: r.EnrollmentDate,
		SchoolID:       r.SchoolID,
		ClassroomID:    r.ClassroomID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func packStudent(stu student.Student) studentRow {
	return studentRow{
		ID:             stu.ID,
		FirstName:      stu.FirstName,
		LastName:       stu.LastName,
		DateOfBirth:    stu.DateOfBirth.UTC(),
		EnrollmentDate: stu.EnrollmentDate.UTC(),
		SchoolID:       stu.SchoolID,
		ClassroomID:    stu.ClassroomID,
		CreatedAt:      stu.CreatedAt.UTC(),
		UpdatedAt:      stu.UpdatedAt.UTC(),
	}
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	stu.ID = uuid.New().String()
	q := `INSERT INTO student (` + studentColumns + `)
		  VALUES (:id, :first_name, :last_name, :date_of_birth, :enrollment_date, :school_id, :classroom_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, packStudent(stu)); err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return stu, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, scope core.Scope) ([]student.Student, error) {
	q := `SELECT ` + studentColumns + ` FROM student`
	args := make([]interface{}, 0, 1)
	if scope.Restricted() {
		q += ` WHERE school_id = $1`
		args = append(args, scope.SchoolID.String)
	}
	q += ` ORDER BY created_at, id`

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unpack())
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	q := `SELECT ` + studentColumns + ` FROM student WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student by ID")
	}
	return row.unpack(), nil
}

func (repo studentRepository) StudentExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM student WHERE id = $1)`
	if err := repo.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, errors.Wrap(err, "checking student existence")
	}
	return exists, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	q := `UPDATE student
		  SET first_name = :first_name, last_name = :last_name, date_of_birth = :date_of_birth,
		      classroom_id = :classroom_id, updated_at = :updated_at
		  WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, packStudent(stu))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return stu, nil
}

func (repo studentRepository) DeleteStudentByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}
