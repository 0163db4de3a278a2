package main

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
)

var errAlreadySeeded = errors.New("database already seeded")

// seed loads a sample school with classrooms, students and accounts.
// It refuses to run twice.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := cli.acctRepo.GetAccountByEmail(ctx, "superadmin@example.com"); err == nil {
		return errAlreadySeeded
	} else if err != account.ErrNotFound {
		return err
	}

	if err := cli.seedAccount(ctx, account.Account{
		Email:     "superadmin@example.com",
		Role:      account.RoleSuperAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}, "superadmin123"); err != nil {
		return err
	}

	sch, err := cli.schoolRepo.CreateSchool(ctx, school.School{
		Name:          "Example School",
		Address:       "123 School St, City, Country",
		ContactNumber: "1234567890",
		Email:         "contact@exampleschool.com",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return err
	}

	if err := cli.seedAccount(ctx, account.Account{
		Email:     "schooladmin@example.com",
		Role:      account.RoleSchoolAdmin,
		SchoolID:  null.StringFrom(sch.ID),
		CreatedAt: now,
		UpdatedAt: now,
	}, "schooladmin123"); err != nil {
		return err
	}

	roomA, err := cli.classroomRepo.CreateClassroom(ctx, classroom.Classroom{
		Name:      "Class A",
		Capacity:  30,
		Resources: []string{"Whiteboard", "Projector"},
		SchoolID:  sch.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	roomB, err := cli.classroomRepo.CreateClassroom(ctx, classroom.Classroom{
		Name:      "Class B",
		Capacity:  25,
		Resources: []string{"Whiteboard", "Computers"},
		SchoolID:  sch.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	john, err := cli.studentRepo.CreateStudent(ctx, student.Student{
		FirstName:      "John",
		LastName:       "Doe",
		DateOfBirth:    time.Date(2005, time.May, 15, 0, 0, 0, 0, time.UTC),
		EnrollmentDate: now,
		SchoolID:       sch.ID,
		ClassroomID:    null.StringFrom(roomA.ID),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return err
	}
	jane, err := cli.studentRepo.CreateStudent(ctx, student.Student{
		FirstName:      "Jane",
		LastName:       "Smith",
		DateOfBirth:    time.Date(2006, time.February, 20, 0, 0, 0, 0, time.UTC),
		EnrollmentDate: now,
		SchoolID:       sch.ID,
		ClassroomID:    null.StringFrom(roomB.ID),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return err
	}

	if err := cli.seedAccount(ctx, account.Account{
		Email:     "john.doe@example.com",
		Role:      account.RoleStudent,
		SchoolID:  null.StringFrom(sch.ID),
		StudentID: null.StringFrom(john.ID),
		CreatedAt: now,
		UpdatedAt: now,
	}, "student123"); err != nil {
		return err
	}
	return cli.seedAccount(ctx, account.Account{
		Email:     "jane.smith@example.com",
		Role:      account.RoleStudent,
		SchoolID:  null.StringFrom(sch.ID),
		StudentID: null.StringFrom(jane.ID),
		CreatedAt: now,
		UpdatedAt: now,
	}, "student123")
}

func (cli *commandLine) seedAccount(ctx context.Context, acct account.Account, pwd string) error {
	if err := acct.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.acctRepo.CreateAccount(ctx, acct)
	return err
}
