package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db    *studentTable
	store *DB
}

// interface compliance checks
var (
	_ student.Repository      = (*studentRepository)(nil)
	_ account.StudentResolver = (*studentRepository)(nil)
)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student, store: db}
}

// query returns matching students in insertion order. Callers must hold the lock.
func (repo *studentRepository) query(scope core.Scope) []student.Student {
	entries := make([]*studentEntry, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		if scope.Restricted() && e.stu.SchoolID != scope.SchoolID.String {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	stus := make([]student.Student, 0, len(entries))
	for _, e := range entries {
		stus = append(stus, e.stu)
	}
	return stus
}

func (repo *studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	stu.ID = uuid.New().String()
	repo.db.table[stu.ID] = &studentEntry{seq: repo.db.seq, stu: stu}
	return stu, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, scope core.Scope) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(scope), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return e.stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) StudentExists(ctx context.Context, id string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.table[id]
	return ok, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.table[stu.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	e.stu = stu
	return stu, nil
}

func (repo *studentRepository) DeleteStudentByID(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.table, id)
	repo.store.cascadeStudentDelete(id)
	return nil
}
