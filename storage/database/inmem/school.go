package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/school"
)

type schoolRepository struct {
	db    *schoolTable
	store *DB
}

// interface compliance checks
var (
	_ school.Repository      = (*schoolRepository)(nil)
	_ account.SchoolResolver = (*schoolRepository)(nil)
)

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db.school, store: db}
}

// query returns matching schools in insertion order. Callers must hold the lock.
// The scoping key of a school is its own id.
func (repo *schoolRepository) query(scope core.Scope) []school.School {
	entries := make([]*schoolEntry, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		if scope.Restricted() && e.sch.ID != scope.SchoolID.String {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	schools := make([]school.School, 0, len(entries))
	for _, e := range entries {
		schools = append(schools, e.sch)
	}
	return schools
}

func (repo *schoolRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedSchools ...school.School) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sch := range repo.query(core.Scope{}) {
		if sch.Email == email && !schoolExcluded(sch, excludedSchools) {
			return school.ErrEmailExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	sch.ID = uuid.New().String()
	repo.db.table[sch.ID] = &schoolEntry{seq: repo.db.seq, sch: sch}
	return sch, nil
}

func (repo *schoolRepository) QuerySchools(ctx context.Context, scope core.Scope) ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(scope), nil
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return e.sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) SchoolExists(ctx context.Context, id string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.table[id]
	return ok, nil
}

func (repo *schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.table[sch.ID]
	if !ok {
		return school.School{}, school.ErrNotFound
	}
	e.sch = sch
	return sch, nil
}

func (repo *schoolRepository) DeleteSchoolByID(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return school.ErrNotFound
	}
	delete(repo.db.table, id)
	repo.store.cascadeSchoolDelete(id)
	return nil
}

func schoolExcluded(sch school.School, excluded []school.School) bool {
	for _, excl := range excluded {
		if sch.ID == excl.ID {
			return true
		}
	}
	return false
}
