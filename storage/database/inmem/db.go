// Package inmemdb provides mutex-guarded in-memory repositories. It backs the
// API tests and local experimentation; production runs on the sqlx
// repositories.
package inmemdb

import (
	"sync"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
)

type (
	DB struct {
		account   *accountTable
		school    *schoolTable
		classroom *classroomTable
		student   *studentTable
	}

	accountTable struct {
		sync.RWMutex
		seq   uint64
		table map[string]*accountEntry
	}
	accountEntry struct {
		seq  uint64
		acct account.Account
	}

	schoolTable struct {
		sync.RWMutex
		seq   uint64
		table map[string]*schoolEntry
	}
	schoolEntry struct {
		seq uint64
		sch school.School
	}

	classroomTable struct {
		sync.RWMutex
		seq   uint64
		table map[string]*classroomEntry
	}
	classroomEntry struct {
		seq  uint64
		room classroom.Classroom
	}

	studentTable struct {
		sync.RWMutex
		seq   uint64
		table map[string]*studentEntry
	}
	studentEntry struct {
		seq uint64
		stu student.Student
	}
)

func Open() (*DB, error) {
	db := &DB{
		account:   &accountTable{table: make(map[string]*accountEntry)},
		school:    &schoolTable{table: make(map[string]*schoolEntry)},
		classroom: &classroomTable{table: make(map[string]*classroomEntry)},
		student:   &studentTable{table: make(map[string]*studentEntry)},
	}
	return db, nil
}

// The cascade helpers mirror the ON DELETE rules of the postgres schema.
// Locks are always taken in school, classroom, student, account order;
// callers hold only the deleted row's table lock.

func (db *DB) cascadeSchoolDelete(schoolID string) {
	db.classroom.Lock()
	for id, e := range db.classroom.table {
		if e.room.SchoolID == schoolID {
			delete(db.classroom.table, id)
		}
	}
	db.classroom.Unlock()

	db.student.Lock()
	for id, e := range db.student.table {
		if e.stu.SchoolID == schoolID {
			delete(db.student.table, id)
		}
	}
	db.student.Unlock()

	db.account.Lock()
	for id, e := range db.account.table {
		if e.acct.SchoolID.Valid && e.acct.SchoolID.String == schoolID {
			delete(db.account.table, id)
		}
	}
	db.account.Unlock()
}

func (db *DB) cascadeClassroomDelete(roomID string) {
	db.student.Lock()
	for _, e := range db.student.table {
		if e.stu.ClassroomID.Valid && e.stu.ClassroomID.String == roomID {
			e.stu.ClassroomID = null.String{}
		}
	}
	db.student.Unlock()
}

func (db *DB) cascadeStudentDelete(studentID string) {
	db.account.Lock()
	for id, e := range db.account.table {
		if e.acct.StudentID.Valid && e.acct.StudentID.String == studentID {
			delete(db.account.table, id)
		}
	}
	db.account.Unlock()
}
