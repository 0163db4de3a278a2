package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
)

func CreateAccount(
	t *testing.T,
	repo account.Repository,
	email string,
	role account.Role,
	pwd string,
	schoolID, studentID *string,
) account.Account {
	tstamp := time.Now().UTC()
	acct := account.Account{
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if schoolID != nil {
		acct.SchoolID = null.StringFrom(*schoolID)
	}
	if studentID != nil {
		acct.StudentID = null.StringFrom(*studentID)
	}
	if pwd != "" {
		if err := acct.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	acct, err := repo.CreateAccount(context.Background(), acct)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acct
}

func CreateSchool(
	t *testing.T,
	repo school.Repository,
	name, address, contactNumber, email string,
) school.School {
	tstamp := time.Now().UTC()
	sch, err := repo.CreateSchool(context.Background(), school.School{
		Name:          name,
		Address:       address,
		ContactNumber: contactNumber,
		Email:         email,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

func CreateClassroom(
	t *testing.T,
	repo classroom.Repository,
	name string,
	capacity int,
	resources []string,
	schoolID string,
) classroom.Classroom {
	tstamp := time.Now().UTC()
	if resources == nil {
		resources = []string{}
	}
	room, err := repo.CreateClassroom(context.Background(), classroom.Classroom{
		Name:      name,
		Capacity:  capacity,
		Resources: resources,
		SchoolID:  schoolID,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateClassroom() failed: %v", err)
	}
	return room
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	firstName, lastName string,
	dateOfBirth time.Time,
	schoolID string,
	classroomID *string,
) student.Student {
	tstamp := time.Now().UTC()
	stu := student.Student{
		FirstName:      firstName,
		LastName:       lastName,
		DateOfBirth:    dateOfBirth,
		EnrollmentDate: tstamp,
		SchoolID:       schoolID,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	}
	if classroomID != nil {
		stu.ClassroomID = null.StringFrom(*classroomID)
	}
	stu, err := repo.CreateStudent(context.Background(), stu)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}
