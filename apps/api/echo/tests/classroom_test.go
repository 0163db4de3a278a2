package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/student"
	testutil "github.com/trezcool/shule/tests"
)

func Test_classroomApi_create(t *testing.T) {
	app := setup(t)

	sch1 := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	sch2 := testutil.CreateSchool(t, schoolRepo, "Goma Prep", "3 Hill St", "0990000002", "info@gomaprep.cd")
	superadmin := testutil.CreateAccount(t, acctRepo, "superadmin@test.cd", account.RoleSuperAdmin, "password123", nil, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch1.ID), nil)
	stu := testutil.CreateStudent(t, studentRepo, "John", "Doe", sch1.CreatedAt, sch1.ID, nil)
	studentAcct := testutil.CreateAccount(t, acctRepo, "student@test.cd", account.RoleStudent, "password123", strPtr(sch1.ID), strPtr(stu.ID))

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, studentAcct),
			body:     marchallObj(t, classroom.NewClassroom{Name: "Class A", Capacity: 30, SchoolID: sch1.ID}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Unknown school", token: getToken(t, superadmin),
			body:     marchallObj(t, classroom.NewClassroom{Name: "Class A", Capacity: 30, SchoolID: "00000000-0000-0000-0000-000000000000"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, apiErr{
				Message: "Validation failed",
				Details: []core.FieldError{{Field: "school_id", Message: "School not found"}},
			}),
		},
		{
			name: "school admin is pinned to their school", token: getToken(t, admin),
			body:     marchallObj(t, classroom.NewClassroom{Name: "Class A", Capacity: 30, SchoolID: sch2.ID}),
			wantCode: http.StatusCreated, extra: sch1.ID,
		},
		{
			name: "superadmin picks the school", token: getToken(t, superadmin),
			body:     marchallObj(t, classroom.NewClassroom{Name: "Class B", Capacity: 25, SchoolID: sch2.ID, Resources: []string{"Projector"}}),
			wantCode: http.StatusCreated, extra: sch2.ID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/classrooms", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusCreated {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			var got classroom.Classroom
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.extra, got.SchoolID)
			assert.NotNil(t, got.Resources)
			assert.NotEmpty(t, got.SchoolName)
		})
	}
}

func Test_classroomApi_query(t *testing.T) {
	app := setup(t)

	sch1 := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	sch2 := testutil.CreateSchool(t, schoolRepo, "Goma Prep", "3 Hill St", "0990000002", "info@gomaprep.cd")
	room1 := testutil.CreateClassroom(t, classroomRepo, "Class A", 30, []string{"Whiteboard"}, sch1.ID)
	room2 := testutil.CreateClassroom(t, classroomRepo, "Class B", 25, nil, sch2.ID)
	superadmin := testutil.CreateAccount(t, acctRepo, "superadmin@test.cd", account.RoleSuperAdmin, "password123", nil, nil)
	stu := testutil.CreateStudent(t, studentRepo, "John", "Doe", sch1.CreatedAt, sch1.ID, strPtr(room1.ID))
	studentAcct := testutil.CreateAccount(t, acctRepo, "student@test.cd", account.RoleStudent, "password123", strPtr(sch1.ID), strPtr(stu.ID))

	room1.SchoolName = sch1.Name
	room2.SchoolName = sch2.Name

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "superadmin sees all", token: getToken(t, superadmin), wantCode: http.StatusOK, wantData: marchallList(t, room1, room2)},
		{name: "student sees own school only", token: getToken(t, studentAcct), wantCode: http.StatusOK, wantData: marchallList(t, room1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/classrooms", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classroomApi_retrieve(t *testing.T) {
	app := setup(t)

	sch1 := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	sch2 := testutil.CreateSchool(t, schoolRepo, "Goma Prep", "3 Hill St", "0990000002", "info@gomaprep.cd")
	room1 := testutil.CreateClassroom(t, classroomRepo, "Class A", 30, []string{"Whiteboard"}, sch1.ID)
	room2 := testutil.CreateClassroom(t, classroomRepo, "Class B", 25, nil, sch2.ID)
	superadmin := testutil.CreateAccount(t, acctRepo, "superadmin@test.cd", account.RoleSuperAdmin, "password123", nil, nil)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch1.ID), nil)

	room1.SchoolName = sch1.Name
	room2.SchoolName = sch2.Name
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Invalid ID", path: "/api/classrooms/lol", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, apiErr{Message: "Invalid ID format"}),
		},
		{
			name: "Not found", path: "/api/classrooms/00000000-0000-0000-0000-000000000000", token: getToken(t, superadmin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, apiErr{Message: "Classroom not found"}),
		},
		{
			name: "Cross-school access denied", path: "/api/classrooms/" + room2.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, apiErr{Message: "Unauthorized access to this classroom"}),
		},
		{name: "own school", path: "/api/classrooms/" + room1.ID, token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, room1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classroomApi_update(t *testing.T) {
	app := setup(t)

	sch := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	room := testutil.CreateClassroom(t, classroomRepo, "Class A", 30, []string{"Whiteboard"}, sch.ID)
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch.ID), nil)
	stu := testutil.CreateStudent(t, studentRepo, "John", "Doe", sch.CreatedAt, sch.ID, strPtr(room.ID))
	studentAcct := testutil.CreateAccount(t, acctRepo, "student@test.cd", account.RoleStudent, "password123", strPtr(sch.ID), strPtr(stu.ID))

	body := marchallObj(t, classroom.UpdateClassroom{Name: "Class A+", Capacity: 35, Resources: []string{"Whiteboard", "Projector"}})

	tests := []httpTest{
		{
			name: "Admin required", body: body, token: getToken(t, studentAcct),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "success", body: body, token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/api/classrooms/"+room.ID, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var got classroom.Classroom
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "Class A+", got.Name)
			assert.Equal(t, 35, got.Capacity)
		})
	}
}

func Test_classroomApi_destroy(t *testing.T) {
	app := setup(t)

	sch := testutil.CreateSchool(t, schoolRepo, "Kivu High", "12 Lake Rd", "0990000001", "info@kivuhigh.cd")
	room := testutil.CreateClassroom(t, classroomRepo, "Class A", 30, nil, sch.ID)
	stu := testutil.CreateStudent(t, studentRepo, "John", "Doe", dob, sch.ID, strPtr(room.ID))
	admin := testutil.CreateAccount(t, acctRepo, "admin@test.cd", account.RoleSchoolAdmin, "password123", strPtr(sch.ID), nil)
	token := getToken(t, admin)

	req, rec := newAuthRequest(http.MethodDelete, "/api/classrooms/"+room.ID, token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	req, rec = newAuthRequest(http.MethodGet, "/api/classrooms/"+room.ID, token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the student is detached from the deleted classroom
	req, rec = newAuthRequest(http.MethodGet, "/api/students/"+stu.ID, token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got student.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.ClassroomID.Valid)

	// deleting again reports not found
	req, rec = newAuthRequest(http.MethodDelete, "/api/classrooms/"+room.ID, token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
