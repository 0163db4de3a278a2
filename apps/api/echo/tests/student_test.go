package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/student"
	testutil "github.com/trezcool/shule/tests"
)

var dob = time.Date(2005, time.May, 15, 0, 0, 0, 0, time.UTC)

func Test_studentApi_create(t *testing.T) {
	app := setup(t)

	sch1 := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	sch2 := testutil.CreateSchool(t, schoolRepo, "Goma Prep", "3 Hill St", "0990000002", "info@gomaprep.cd")
	room2 := testutil.CreateClassroom(t, classroomRepo, "Class B", 25, nil, sch2.ID)
	superadmin := testutil.CreateAccount(t, acctRepo, "superadmin@test.cd", account.RoleSuperAdmin, "password123", nil, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch1.ID), nil)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "classroom of another school", token: getToken(t, admin),
			body: marchallObj(t, student.NewStudent{
				FirstName:   "John",
				LastName:    "Doe",
				DateOfBirth: dob,
				SchoolID:    sch1.ID,
				ClassroomID: nullStr(room2.ID),
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, apiErr{
				Message: "Validation failed",
				Details: []core.FieldError{{Field: "classroom_id", Message: "Classroom belongs to a different school"}},
			}),
		},
		{
			name: "school admin is pinned to their school", token: getToken(t, admin),
			body: marchallObj(t, student.NewStudent{
				FirstName:   "John",
				LastName:    "Doe",
				DateOfBirth: dob,
				SchoolID:    sch2.ID,
			}),
			wantCode: http.StatusCreated, extra: sch1.ID,
		},
		{
			name: "superadmin picks the school", token: getToken(t, superadmin),
			body: marchallObj(t, student.NewStudent{
				FirstName:   "Jane",
				LastName:    "Smith",
				DateOfBirth: dob,
				SchoolID:    sch2.ID,
				ClassroomID: nullStr(room2.ID),
			}),
			wantCode: http.StatusCreated, extra: sch2.ID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/students", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusCreated {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			var got student.Student
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.extra, got.SchoolID)
			assert.False(t, got.EnrollmentDate.IsZero())
		})
	}
}

func Test_studentApi_query(t *testing.T) {
	app := setup(t)

	sch1 := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	sch2 := testutil.CreateSchool(t, schoolRepo, "Goma Prep", "3 Hill St", "0990000002", "info@gomaprep.cd")
	room1 := testutil.CreateClassroom(t, classroomRepo, "Class A", 30, nil, sch1.ID)
	stu1 := testutil.CreateStudent(t, studentRepo, "John", "Doe", dob, sch1.ID, strPtr(room1.ID))
	stu2 := testutil.CreateStudent(t, studentRepo, "Jane", "Smith", dob, sch2.ID, nil)
	superadmin := testutil.CreateAccount(t, acctRepo, "superadmin@test.cd", account.RoleSuperAdmin, "password123", nil, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch1.ID), nil)
	studentAcct := testutil.CreateAccount(t, acctRepo, "student@test.cd", account.RoleStudent, "password123", strPtr(sch1.ID), strPtr(stu1.ID))

	stu1.SchoolName, stu1.ClassroomName = sch1.Name, room1.Name
	stu2.SchoolName = sch2.Name

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, studentAcct),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "superadmin sees all", token: getToken(t, superadmin), wantCode: http.StatusOK, wantData: marchallList(t, stu1, stu2)},
		{name: "school admin sees own school only", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallList(t, stu1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/students", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	app := setup(t)

	sch1 := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	sch2 := testutil.CreateSchool(t, schoolRepo, "Goma Prep", "3 Hill St", "0990000002", "info@gomaprep.cd")
	stu1 := testutil.CreateStudent(t, studentRepo, "John", "Doe", dob, sch1.ID, nil)
	stu2 := testutil.CreateStudent(t, studentRepo, "Jane", "Smith", dob, sch2.ID, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch1.ID), nil)
	studentAcct := testutil.CreateAccount(t, acctRepo, "student@test.cd", account.RoleStudent, "password123", strPtr(sch1.ID), strPtr(stu1.ID))

	stu1.SchoolName = sch1.Name
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Invalid ID", path: "/api/students/lol", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, apiErr{Message: "Invalid ID format"}),
		},
		{
			name: "Not found", path: "/api/students/00000000-0000-0000-0000-000000000000", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, apiErr{Message: "Student not found"}),
		},
		{
			name: "Cross-school access denied", path: "/api/students/" + stu2.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, apiErr{Message: "Unauthorized access to this student"}),
		},
		{name: "own school", path: "/api/students/" + stu1.ID, token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, stu1)},
		{name: "student reads own record", path: "/api/students/" + stu1.ID, token: getToken(t, studentAcct), wantCode: http.StatusOK, wantData: marchallObj(t, stu1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	app := setup(t)

	sch := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	room := testutil.CreateClassroom(t, classroomRepo, "Class A", 30, nil, sch.ID)
	stu := testutil.CreateStudent(t, studentRepo, "John", "Doe", dob, sch.ID, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch.ID), nil)

	body := marchallObj(t, student.UpdateStudent{
		FirstName:   "Johnny",
		LastName:    "Doe",
		DateOfBirth: dob,
		ClassroomID: nullStr(room.ID),
	})

	req, rec := newAuthRequest(http.MethodPut, "/api/students/"+stu.ID, getToken(t, admin), body)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got student.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Johnny", got.FirstName)
	assert.Equal(t, room.ID, got.ClassroomID.String)
	assert.Equal(t, room.Name, got.ClassroomName)
}

func Test_studentApi_destroy(t *testing.T) {
	app := setup(t)

	sch := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	stu := testutil.CreateStudent(t, studentRepo, "John", "Doe", dob, sch.ID, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch.ID), nil)
	studentAcct := testutil.CreateAccount(t, acctRepo, "john.doe@test.cd", account.RoleStudent, "password123", strPtr(sch.ID), strPtr(stu.ID))
	token := getToken(t, admin)

	req, rec := newAuthRequest(http.MethodDelete, "/api/students/"+stu.ID, token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	req, rec = newAuthRequest(http.MethodGet, "/api/students/"+stu.ID, token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the bound account goes with the student
	_, err := acctRepo.GetAccountByID(ctxb(), studentAcct.ID)
	assert.Equal(t, account.ErrNotFound, err)

	// deleting again reports not found
	req, rec = newAuthRequest(http.MethodDelete, "/api/students/"+stu.ID, token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_studentApi_transfer(t *testing.T) {
	app := setup(t)

	sch1 := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	sch2 := testutil.CreateSchool(t, schoolRepo, "Goma Prep", "3 Hill St", "0990000002", "info@gomaprep.cd")
	room1 := testutil.CreateClassroom(t, classroomRepo, "Class A", 30, nil, sch1.ID)
	room2 := testutil.CreateClassroom(t, classroomRepo, "Class B", 25, nil, sch1.ID)
	foreignRoom := testutil.CreateClassroom(t, classroomRepo, "Class C", 20, nil, sch2.ID)
	stu := testutil.CreateStudent(t, studentRepo, "John", "Doe", dob, sch1.ID, strPtr(room1.ID))
	foreignStu := testutil.CreateStudent(t, studentRepo, "Jane", "Smith", dob, sch2.ID, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch1.ID), nil)

	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Unknown student", token: adminToken,
			body:     marchallObj(t, student.TransferStudent{StudentID: "00000000-0000-0000-0000-000000000000", NewClassroomID: room2.ID}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, apiErr{Message: "Student not found"}),
		},
		{
			name: "Cross-school student", token: adminToken,
			body:     marchallObj(t, student.TransferStudent{StudentID: foreignStu.ID, NewClassroomID: room2.ID}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, apiErr{Message: "Unauthorized access to this student"}),
		},
		{
			name: "Unknown classroom", token: adminToken,
			body:     marchallObj(t, student.TransferStudent{StudentID: stu.ID, NewClassroomID: "00000000-0000-0000-0000-000000000000"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, apiErr{
				Message: "Validation failed",
				Details: []core.FieldError{{Field: "new_classroom_id", Message: "Classroom not found"}},
			}),
		},
		{
			name: "Classroom of another school", token: adminToken,
			body:     marchallObj(t, student.TransferStudent{StudentID: stu.ID, NewClassroomID: foreignRoom.ID}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, apiErr{
				Message: "Validation failed",
				Details: []core.FieldError{{Field: "new_classroom_id", Message: "Classroom belongs to a different school"}},
			}),
		},
		{
			name: "success", token: adminToken,
			body:     marchallObj(t, student.TransferStudent{StudentID: stu.ID, NewClassroomID: room2.ID}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/students/transfer", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var got student.Student
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, room2.ID, got.ClassroomID.String)
			assert.Equal(t, room2.Name, got.ClassroomName)
		})
	}
}
