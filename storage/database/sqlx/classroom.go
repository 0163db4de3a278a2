package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/classroom"
)

const classroomColumns = `id, name, capacity, resources, school_id, created_at, updated_at`

type classroomRepository struct {
	db *sqlx.DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db *sqlx.DB) *classroomRepository {
	return &classroomRepository{db: db}
}

type classroomRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Capacity  int            `db:"capacity"`
	Resources pq.StringArray `db:"resources"`
	SchoolID  string         `db:"school_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r classroomRow) unpack() classroom.Classroom {
	return classroom.Classroom{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Resources: r.Resources,
		SchoolID:  r.SchoolID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func packClassroom(room classroom.Classroom) classroomRow {
	resources := room.Resources
	if resources == nil {
		resources = []string{}
	}
	return classroomRow{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		Resources: resources,
		SchoolID:  room.SchoolID,
		CreatedAt: room.CreatedAt.UTC(),
		UpdatedAt: room.UpdatedAt.UTC(),
	}
}

func (repo classroomRepository) CreateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	room.ID = uuid.New().String()
	q := `INSERT INTO classroom (` + classroomColumns + `)
		  VALUES (:id, :name, :capacity, :resources, :school_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, packClassroom(room)); err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "creating classroom")
	}
	return room, nil
}

func (repo classroomRepository) QueryClassrooms(ctx context.Context, scope core.Scope) ([]classroom.Classroom, error) {
	q := `SELECT ` + classroomColumns + ` FROM classroom`
	args := make([]interface{}, 0, 1)
	if scope.Restricted() {
		q += ` WHERE school_id = $1`
		args = append(args, scope.SchoolID.String)
	}
	q += ` ORDER BY created_at, id`

	var rows []classroomRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying classrooms")
	}
	rooms := make([]classroom.Classroom, 0, len(rows))
	for _, r := range rows {
		rooms = append(rooms, r.unpack())
	}
	return rooms, nil
}

func (repo classroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	var row classroomRow
	q := `SELECT ` + classroomColumns + ` FROM classroom WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return classroom.Classroom{}, trapNoRowsErr(err, classroom.ErrNotFound, "getting classroom by ID")
	}
	return row.unpack(), nil
}

func (repo classroomRepository) UpdateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	q := `UPDATE classroom
		  SET name = :name, capacity = :capacity, resources = :resources, updated_at = :updated_at
		  WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, packClassroom(room))
	if err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "updating classroom")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	return room, nil
}

func (repo classroomRepository) DeleteClassroomByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM classroom WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting classroom")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.ErrNotFound
	}
	return nil
}
