package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
)

func Test_enrollmentApi_query(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	alice := createUser(t, "Alice", "alice", "alice@test.cd", "", nil, true)
	bob := createUser(t, "Bob", "bob", "bob@test.cd", "", nil, true)

	goCrs := createCourse(t, "Go Basics", teacher.ID, true, false)
	sqlCrs := createCourse(t, "Practical SQL", teacher.ID, true, false)

	aliceGo := createEnrollment(t, alice.ID, goCrs.ID, enrollment.StatusActive)
	aliceSQL := createEnrollment(t, alice.ID, sqlCrs.ID, enrollment.StatusCompleted)
	bobGo := createEnrollment(t, bob.ID, goCrs.ID, enrollment.StatusActive)

	aliceToken := getToken(t, alice)
	teacherToken := getToken(t, teacher)

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/enrollments", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "non-staff only see their own", path: "/v1/enrollments?ordering=enrolled_at", token: aliceToken,
			wantCode: http.StatusOK, wantData: pagedData(t, 2, []enrollment.Enrollment{aliceGo, aliceSQL}),
		},
		{
			name: "non-staff cannot peek at other users", path: "/v1/enrollments?user=" + bob.ID + "&ordering=enrolled_at",
			token: aliceToken, wantCode: http.StatusOK, wantData: pagedData(t, 2, []enrollment.Enrollment{aliceGo, aliceSQL}),
		},
		{
			name: "staff filter by user", path: "/v1/enrollments?user=" + bob.ID, token: teacherToken,
			wantCode: http.StatusOK, wantData: pagedData(t, 1, []enrollment.Enrollment{bobGo}),
		},
		{
			name: "status filter", path: "/v1/enrollments?status=completed", token: aliceToken,
			wantCode: http.StatusOK, wantData: pagedData(t, 1, []enrollment.Enrollment{aliceSQL}),
		},
		{
			name: "course filter", path: "/v1/enrollments?course=" + sqlCrs.ID, token: aliceToken,
			wantCode: http.StatusOK, wantData: pagedData(t, 1, []enrollment.Enrollment{aliceSQL}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_retrieve(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	alice := createUser(t, "Alice", "alice", "alice@test.cd", "", nil, true)
	bob := createUser(t, "Bob", "bob", "bob@test.cd", "", nil, true)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	aliceEnr := createEnrollment(t, alice.ID, crs.ID, enrollment.StatusActive)

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/enrollments/" + aliceEnr.ID, wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "owner", path: "/v1/enrollments/" + aliceEnr.ID, token: getToken(t, alice),
			wantCode: http.StatusOK, wantData: marchallObj(t, aliceEnr),
		},
		{
			name: "hidden from other users", path: "/v1/enrollments/" + aliceEnr.ID, token: getToken(t, bob),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "staff see any", path: "/v1/enrollments/" + aliceEnr.ID, token: getToken(t, teacher),
			wantCode: http.StatusOK, wantData: marchallObj(t, aliceEnr),
		},
		{
			name: "unknown", path: "/v1/enrollments/lol", token: getToken(t, alice),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_progress(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	alice := createUser(t, "Alice", "alice", "alice@test.cd", "", nil, true)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	mod := createModule(t, crs.ID, "Getting Started", 1)
	createLesson(t, mod.ID, "Installing Go", 1, true)
	createLesson(t, mod.ID, "Hello World", 2, true)
	enr := createEnrollment(t, alice.ID, crs.ID, enrollment.StatusActive)

	req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments/"+enr.ID+"/progress", getToken(t, alice))
	app.ServeHTTP(rec, req)
	want := httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, enrollment.Progress{
			EnrollmentID: enr.ID,
			CourseID:     crs.ID,
			TotalLessons: 2,
		}),
	}
	checkCodeAndData(t, want, rec)
}

func Test_enrollmentApi_drop(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	alice := createUser(t, "Alice", "alice", "alice@test.cd", "", nil, true)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	enr := createEnrollment(t, alice.ID, crs.ID, enrollment.StatusActive)

	req, rec := newAuthRequest(http.MethodPost, "/v1/enrollments/"+enr.ID+"/drop", getToken(t, alice))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("drop failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var dropped enrollment.Enrollment
	if err := unmarchallObj(t, rec.Body.Bytes(), &dropped); err != nil {
		t.Fatalf("unmarchallObj(): %v", err)
	}
	if dropped.Status != enrollment.StatusDropped {
		t.Errorf("status = %q; want %q", dropped.Status, enrollment.StatusDropped)
	}

	// the enrollment record itself is dropped, not deleted
	got, err := enrRepo.GetEnrollmentByID(context.Background(), enr.ID)
	if err != nil {
		t.Fatalf("GetEnrollmentByID(): %v", err)
	}
	if got.Status != enrollment.StatusDropped {
		t.Errorf("persisted status = %q; want %q", got.Status, enrollment.StatusDropped)
	}
}
