package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/classroom"
)

type classroomRepository struct {
	db    *classroomTable
	store *DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db *DB) *classroomRepository {
	return &classroomRepository{db: db.classroom, store: db}
}

// query returns matching classrooms in insertion order. Callers must hold the lock.
func (repo *classroomRepository) query(scope core.Scope) []classroom.Classroom {
	entries := make([]*classroomEntry, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		if scope.Restricted() && e.room.SchoolID != scope.SchoolID.String {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	rooms := make([]classroom.Classroom, 0, len(entries))
	for _, e := range entries {
		rooms = append(rooms, e.room)
	}
	return rooms
}

func (repo *classroomRepository) CreateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	room.ID = uuid.New().String()
	repo.db.table[room.ID] = &classroomEntry{seq: repo.db.seq, room: room}
	return room, nil
}

func (repo *classroomRepository) QueryClassrooms(ctx context.Context, scope core.Scope) ([]classroom.Classroom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(scope), nil
}

func (repo *classroomRepository) GetClassroomByID(ctx context.Context, id string) (classroom.Classroom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return e.room, nil
	}
	return classroom.Classroom{}, classroom.ErrNotFound
}

func (repo *classroomRepository) UpdateClassroom(ctx context.Context, room classroom.Classroom) (classroom.Classroom, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.table[room.ID]
	if !ok {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	e.room = room
	return room, nil
}

func (repo *classroomRepository) DeleteClassroomByID(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return classroom.ErrNotFound
	}
	delete(repo.db.table, id)
	repo.store.cascadeClassroomDelete(id)
	return nil
}
